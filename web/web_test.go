package web

import (
	"bytes"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/models/vo"
)

func TestTemplatesRender(t *testing.T) {
	tmpl, err := Templates(func(ref string) string { return "/static/" + ref })
	require.NoError(t, err)

	post := &entities.Post{
		ID:        3,
		Title:     "Hello <World>",
		Slug:      sql.NullString{String: "hello-world", Valid: true},
		Content:   "body",
		Category:  "World",
		ImageURL:  sql.NullString{String: "uploads/x_cover.png", Valid: true},
		CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Attachments: []entities.Attachment{
			{Filename: "report.pdf", FilePath: "uploads/attachments/y_report.pdf"},
		},
	}

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "post.html", map[string]any{
		"Detail":   &vo.PostDetailPage{Post: post},
		"Flashes":  []string{"Your comment has been posted!"},
		"LoggedIn": false,
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Hello &lt;World&gt;")
	assert.Contains(t, out, "/static/uploads/x_cover.png")
	assert.Contains(t, out, "report.pdf")
	assert.Contains(t, out, `action="/post/3/comment"`)
	assert.Contains(t, out, "Your comment has been posted!")

	buf.Reset()
	err = tmpl.ExecuteTemplate(&buf, "index.html", map[string]any{
		"Page": &vo.PostListPage{Posts: []*entities.Post{post}, Featured: []*entities.Post{post}, Page: 1, HasNext: true},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "page=2")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("short", 10))
	assert.Equal(t, "héll…", excerpt("héllo wörld", 4))
}
