// Package docs 由 swag init 根据控制器注释生成，修改注释后重新执行:
//
//	swag init -g main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "按创建时间倒序分页 (每页 6 篇)，可按分类筛选；load_more 只返回文章卡片片段。",
                "produces": ["text/html"],
                "tags": ["public"],
                "summary": "文章列表",
                "parameters": [
                    {"type": "string", "description": "分类名称", "name": "category", "in": "query"},
                    {"minimum": 1, "type": "integer", "default": 1, "description": "页码 (从1开始)", "name": "page", "in": "query"},
                    {"type": "boolean", "description": "只返回文章卡片片段", "name": "load_more", "in": "query"}
                ],
                "responses": {"200": {"description": "HTML 页面", "schema": {"type": "string"}}}
            }
        },
        "/post/{slug}": {
            "get": {
                "produces": ["text/html"],
                "tags": ["public"],
                "summary": "文章详情",
                "parameters": [{"type": "string", "description": "文章 slug", "name": "slug", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "HTML 页面", "schema": {"type": "string"}},
                    "404": {"description": "文章不存在", "schema": {"type": "string"}}
                }
            }
        },
        "/post/{id}/comment": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["public"],
                "summary": "发表评论",
                "parameters": [
                    {"type": "integer", "description": "文章 ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "昵称", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "description": "邮箱", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "内容", "name": "content", "in": "formData", "required": true}
                ],
                "responses": {"303": {"description": "跳转回文章页"}, "404": {"description": "文章不存在"}}
            }
        },
        "/search": {
            "get": {
                "produces": ["text/html"],
                "tags": ["public"],
                "summary": "搜索文章",
                "parameters": [{"type": "string", "description": "关键词，为空时不返回结果", "name": "q", "in": "query"}],
                "responses": {"200": {"description": "HTML 页面", "schema": {"type": "string"}}}
            }
        },
        "/submit": {
            "get": {"produces": ["text/html"], "tags": ["public"], "summary": "投稿表单", "responses": {"200": {"description": "HTML 页面"}}},
            "post": {
                "description": "验证题答对后保存为 pending 投稿；可附带一张图片。分类不存在时归入默认分类。",
                "consumes": ["multipart/form-data"],
                "tags": ["public"],
                "summary": "提交投稿",
                "parameters": [
                    {"type": "string", "name": "author_name", "in": "formData", "required": true},
                    {"type": "string", "name": "author_email", "in": "formData", "required": true},
                    {"type": "string", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "name": "content", "in": "formData", "required": true},
                    {"type": "string", "name": "category", "in": "formData"},
                    {"type": "string", "name": "captcha", "in": "formData", "required": true},
                    {"type": "file", "name": "image", "in": "formData"}
                ],
                "responses": {"303": {"description": "跳转回投稿页"}}
            }
        },
        "/subscribe": {
            "post": {
                "tags": ["public"],
                "summary": "订阅",
                "parameters": [{"type": "string", "name": "email", "in": "formData", "required": true}],
                "responses": {"303": {"description": "跳转回来源页"}}
            }
        },
        "/service-order": {
            "post": {
                "tags": ["public"],
                "summary": "提交服务咨询",
                "parameters": [
                    {"type": "string", "name": "service_name", "in": "formData", "required": true},
                    {"type": "string", "name": "customer_name", "in": "formData", "required": true},
                    {"type": "string", "name": "contact_number", "in": "formData", "required": true},
                    {"type": "integer", "name": "age", "in": "formData"},
                    {"type": "string", "name": "sex", "in": "formData"},
                    {"type": "string", "name": "location", "in": "formData"},
                    {"type": "string", "name": "message", "in": "formData"}
                ],
                "responses": {"303": {"description": "跳转回服务页"}}
            }
        },
        "/service-order/{id}/status": {
            "post": {
                "tags": ["operator"],
                "summary": "修改服务单状态",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"enum": ["pending", "contacted", "completed"], "type": "string", "name": "status", "in": "formData", "required": true}
                ],
                "responses": {"303": {"description": "跳转到管理后台"}, "404": {"description": "服务单不存在"}}
            }
        },
        "/dashboard": {
            "get": {"produces": ["text/html"], "tags": ["operator"], "summary": "管理后台", "responses": {"200": {"description": "HTML 页面"}}}
        },
        "/submission/{id}/approve": {
            "post": {
                "tags": ["operator"],
                "summary": "审核通过投稿",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"303": {"description": "跳转回管理后台"}, "404": {"description": "投稿不存在"}}
            }
        },
        "/submission/{id}/reject": {
            "post": {
                "tags": ["operator"],
                "summary": "拒绝投稿",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "admin_notes", "in": "formData"}
                ],
                "responses": {"303": {"description": "跳转回管理后台"}, "404": {"description": "投稿不存在"}}
            }
        },
        "/submission/{id}/edit": {
            "post": {
                "tags": ["operator"],
                "summary": "编辑投稿",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "name": "content", "in": "formData", "required": true},
                    {"type": "string", "name": "category", "in": "formData"}
                ],
                "responses": {"303": {"description": "跳转回管理后台"}}
            }
        },
        "/comment/{id}/reply": {
            "post": {
                "tags": ["operator"],
                "summary": "回复评论",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "content", "in": "formData", "required": true}
                ],
                "responses": {"303": {"description": "跳转回文章页"}, "404": {"description": "评论不存在"}}
            }
        },
        "/create": {
            "post": {
                "consumes": ["multipart/form-data"],
                "tags": ["operator"],
                "summary": "创建文章",
                "parameters": [
                    {"maxLength": 200, "type": "string", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "name": "content", "in": "formData", "required": true},
                    {"type": "string", "name": "category", "in": "formData"},
                    {"type": "boolean", "name": "featured", "in": "formData"},
                    {"type": "file", "name": "image", "in": "formData"},
                    {"type": "file", "name": "attachments", "in": "formData"}
                ],
                "responses": {"303": {"description": "跳转到管理后台"}}
            }
        },
        "/edit/{id}": {
            "post": {
                "consumes": ["multipart/form-data"],
                "tags": ["operator"],
                "summary": "编辑文章",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "name": "content", "in": "formData", "required": true},
                    {"type": "string", "name": "category", "in": "formData"},
                    {"type": "boolean", "name": "featured", "in": "formData"},
                    {"type": "file", "name": "image", "in": "formData"},
                    {"type": "file", "name": "attachments", "in": "formData"}
                ],
                "responses": {"303": {"description": "跳转到管理后台"}, "404": {"description": "文章不存在"}}
            }
        },
        "/delete/{id}": {
            "get": {
                "tags": ["operator"],
                "summary": "删除文章",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"303": {"description": "跳转到管理后台"}, "404": {"description": "文章不存在"}}
            }
        },
        "/settings": {
            "post": {
                "tags": ["operator"],
                "summary": "保存社交链接",
                "parameters": [
                    {"type": "string", "name": "facebook_url", "in": "formData"},
                    {"type": "string", "name": "instagram_url", "in": "formData"},
                    {"type": "string", "name": "twitter_url", "in": "formData"},
                    {"type": "string", "name": "whatsapp_url", "in": "formData"},
                    {"type": "string", "name": "youtube_url", "in": "formData"}
                ],
                "responses": {"303": {"description": "跳转到管理后台"}}
            }
        },
        "/category/add": {
            "post": {
                "tags": ["operator"],
                "summary": "新增分类",
                "parameters": [{"type": "string", "name": "name", "in": "formData", "required": true}],
                "responses": {"303": {"description": "跳转到管理后台"}}
            }
        },
        "/category/delete/{id}": {
            "post": {
                "tags": ["operator"],
                "summary": "删除分类",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"303": {"description": "跳转到管理后台"}, "404": {"description": "分类不存在"}}
            }
        },
        "/login": {
            "post": {
                "tags": ["auth"],
                "summary": "管理员登录",
                "parameters": [
                    {"type": "string", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {"303": {"description": "跳转到管理后台"}}
            }
        },
        "/logout": {
            "get": {"tags": ["auth"], "summary": "退出登录", "responses": {"303": {"description": "跳转到首页"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Blog Service",
	Description:      "内容发布平台：文章、投稿审核、评论、订阅与服务咨询。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
