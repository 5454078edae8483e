package mysql

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/Xushengqwer/blog_service/models/entities"
)

// SettingsRepository 站点设置单行记录
type SettingsRepository interface {
	// GetOrCreateSettings 返回唯一的设置行。正常情况下只读；行不存在时才插入空行，
	// 并发首次访问时依靠主键冲突 DO NOTHING 保证只有一行。
	GetOrCreateSettings(ctx context.Context) (*entities.SiteSettings, error)
	SaveSettings(ctx context.Context, settings *entities.SiteSettings) error
}

type settingsRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSettingsRepository(db *gorm.DB, logger *zap.Logger) SettingsRepository {
	return &settingsRepository{db: db, logger: logger}
}

func (r *settingsRepository) GetOrCreateSettings(ctx context.Context) (*entities.SiteSettings, error) {
	settings, err := r.findSettings(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Error("读取站点设置失败", zap.Error(err))
		return nil, err
	}

	// 首次访问才写入空行；并发插入由主键冲突 DO NOTHING 兜底
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entities.SiteSettings{ID: entities.SiteSettingsID}).Error
	if err != nil {
		r.logger.Error("初始化站点设置失败", zap.Error(err))
		return nil, err
	}
	// 刚写入的行从主库读取，避免从库复制延迟
	settings, err = r.findSettings(ctx, dbresolver.Write)
	if err != nil {
		r.logger.Error("读取站点设置失败", zap.Error(err))
		return nil, err
	}
	return settings, nil
}

func (r *settingsRepository) findSettings(ctx context.Context, clauses ...clause.Expression) (*entities.SiteSettings, error) {
	var settings entities.SiteSettings
	if err := r.db.WithContext(ctx).Clauses(clauses...).First(&settings, entities.SiteSettingsID).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) SaveSettings(ctx context.Context, settings *entities.SiteSettings) error {
	settings.ID = entities.SiteSettingsID
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"facebook_url", "instagram_url", "twitter_url", "whatsapp_url", "youtube_url"}),
		}).
		Create(settings).Error
	if err != nil {
		r.logger.Error("保存站点设置失败", zap.Error(err))
	}
	return err
}
