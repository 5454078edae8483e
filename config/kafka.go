package config

type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers" json:"brokers" yaml:"brokers"`
	Topics          Topics   `mapstructure:"topics" json:"topics" yaml:"topics"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id" json:"consumer_group_id" yaml:"consumer_group_id"`
}

type Topics struct {
	PostPublished      string `mapstructure:"postPublished" json:"postPublished" yaml:"postPublished"`                //  文章发布主题
	PostDeleted        string `mapstructure:"postDeleted" json:"postDeleted" yaml:"postDeleted"`                      //  文章删除主题
	SubmissionReceived string `mapstructure:"submissionReceived" json:"submissionReceived" yaml:"submissionReceived"` //  投稿收到主题
	SubmissionReviewed string `mapstructure:"submissionReviewed" json:"submissionReviewed" yaml:"submissionReviewed"` //  投稿审核结果主题
	SubmissionIntake   string `mapstructure:"submissionIntake" json:"submissionIntake" yaml:"submissionIntake"`       //  外部投稿入口 (消费)
}
