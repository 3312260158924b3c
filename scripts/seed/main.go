package main

import (
	"fmt"
	"log"

	"github.com/writespace/internal/config"
	"github.com/writespace/internal/db"
	"github.com/writespace/internal/model"
	"github.com/writespace/internal/service"
	"github.com/writespace/internal/store"
)

type seedUser struct {
	name     string
	email    string
	password string
}

type seedPost struct {
	author   int
	title    string
	excerpt  string
	content  string
	category string
	tags     []string
	publish  bool
	views    int
}

var seedUsers = []seedUser{
	{name: "Demo Writer", email: "demo@writespace.dev", password: "demo123"},
	{name: "Guest Author", email: "guest@writespace.dev", password: "guest123"},
}

var seedPosts = []seedPost{
	{
		author:   0,
		title:    "Getting Started with Go Services",
		excerpt:  "A short tour of building HTTP services in Go.",
		content:  "## Why Go\n\nGo keeps services small and readable.\n\n- fast builds\n- a solid standard library\n- simple concurrency",
		category: "technology",
		tags:     []string{"go", "backend"},
		publish:  true,
		views:    12,
	},
	{
		author:   0,
		title:    "Morning Routines That Stick",
		content:  "Small habits compound. Start with five minutes and grow from there.",
		category: "lifestyle",
		tags:     []string{"habits"},
		publish:  true,
		views:    4,
	},
	{
		author:   1,
		title:    "Planning a Slow Trip",
		excerpt:  "Fewer stops, longer stays.",
		content:  "Pick one region, rent a room for a week and walk everywhere.",
		category: "travel",
		tags:     []string{"travel", "planning"},
		publish:  true,
	},
	{
		author:   0,
		title:    "Unfinished Thoughts on Pricing",
		content:  "Draft notes about pricing experiments.",
		category: "business",
	},
}

// 测试数据生成器
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	gdb, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	repo := store.NewSQLStore(gdb)
	summary, err := seed(repo, service.NewAuthService(repo))
	if err != nil {
		log.Fatalf("生成测试数据失败: %v", err)
	}

	fmt.Println("测试数据生成完成！")
	fmt.Printf("用户: %d, 文章: %d (已发布 %d)\n", summary.users, summary.posts, summary.published)
	for _, user := range seedUsers {
		fmt.Printf("登录: %s / %s\n", user.email, user.password)
	}
}

type seedSummary struct {
	users     int
	posts     int
	published int
}

// seed 写入示例用户与文章；用户已存在时沿用，已有文章的作者不会重复写入。
func seed(repo store.Repository, auth *service.AuthService) (seedSummary, error) {
	var summary seedSummary

	authors := make([]*model.User, 0, len(seedUsers))
	for _, u := range seedUsers {
		user, err := auth.EnsureUser(u.name, u.email, u.password)
		if err != nil {
			return summary, fmt.Errorf("ensure user %s: %w", u.email, err)
		}
		authors = append(authors, user)
		summary.users++
	}

	posts := service.NewPostService(repo)
	for _, p := range seedPosts {
		author := authors[p.author]
		existing, err := repo.GetPostsByAuthor(author.ID)
		if err != nil {
			return summary, err
		}
		if containsTitle(existing, p.title) {
			continue
		}

		post, err := posts.Create(author.ID, service.PostInput{
			Title:    p.title,
			Excerpt:  p.excerpt,
			Content:  p.content,
			Category: p.category,
			Tags:     p.tags,
		})
		if err != nil {
			return summary, fmt.Errorf("create post %q: %w", p.title, err)
		}
		summary.posts++

		if !p.publish {
			continue
		}
		if _, err := posts.Publish(author.ID, post.ID); err != nil {
			return summary, fmt.Errorf("publish post %q: %w", p.title, err)
		}
		summary.published++
		for i := 0; i < p.views; i++ {
			if err := repo.IncrementViews(post.ID); err != nil {
				return summary, err
			}
		}
	}
	return summary, nil
}

func containsTitle(posts []model.Post, title string) bool {
	for _, post := range posts {
		if post.Title == title {
			return true
		}
	}
	return false
}
