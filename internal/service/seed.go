// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/store"
)

// SeedResult reports what Seed inserted.
type SeedResult struct {
	Projects  int
	BlogPosts int
}

// Seed inserts the sample projects and blog posts. Each kind is seeded only
// when its table is empty, so running it twice is harmless.
func (s *ContentService) Seed(ctx context.Context) (SeedResult, error) {
	var res SeedResult

	n, err := s.queries.CountProjects(ctx, store.ProjectFilter{})
	if err != nil {
		return res, fmt.Errorf("counting projects: %w", err)
	}
	if n == 0 {
		for _, p := range sampleProjects() {
			if _, err := s.CreateProject(ctx, p, nil); err != nil {
				return res, fmt.Errorf("seeding project %q: %w", *p.Title, err)
			}
			res.Projects++
		}
	}

	n, err = s.queries.CountBlogPosts(ctx, store.BlogPostFilter{})
	if err != nil {
		return res, fmt.Errorf("counting blog posts: %w", err)
	}
	if n == 0 {
		for _, p := range sampleBlogPosts() {
			if _, err := s.CreateBlogPost(ctx, p, nil); err != nil {
				return res, fmt.Errorf("seeding blog post %q: %w", *p.Title, err)
			}
			res.BlogPosts++
		}
	}

	s.logger.Info("seed complete", "projects", res.Projects, "blog_posts", res.BlogPosts)
	return res, nil
}

func sampleProjects() []model.ProjectPatch {
	return []model.ProjectPatch{
		{
			Title:        ptrTo("Railway Reservation System"),
			Description:  ptrTo("A comprehensive railway booking system built during Grade 12 with user authentication, seat selection, and booking management."),
			Technologies: ptrTo([]string{"HTML", "CSS", "JavaScript", "Database"}),
			Category:     ptrTo(model.ProjectCategoryWeb),
			Year:         ptrTo("2023"),
			Status:       ptrTo(model.ProjectStatusCompleted),
			Featured:     ptrTo(true),
			Order:        ptrTo(int64(1)),
		},
		{
			Title:        ptrTo("E-governance Platform"),
			Description:  ptrTo("Digital governance solution developed during hackathon to streamline citizen services and government processes."),
			Technologies: ptrTo([]string{"React.js", "Node.js", "MongoDB", "Express.js"}),
			Category:     ptrTo(model.ProjectCategoryFullStack),
			Year:         ptrTo("2024"),
			Status:       ptrTo(model.ProjectStatusCompleted),
			Featured:     ptrTo(true),
			Order:        ptrTo(int64(2)),
		},
	}
}

func sampleBlogPosts() []model.BlogPostPatch {
	return []model.BlogPostPatch{
		{
			Title:     ptrTo("My Journey into Web Development"),
			Excerpt:   ptrTo("How I started learning web development and the challenges I faced along the way."),
			Content:   ptrTo(journeyPost),
			Category:  ptrTo("Personal"),
			ReadTime:  ptrTo("5 min read"),
			Published: ptrTo(true),
			Featured:  ptrTo(true),
			Tags:      ptrTo([]string{"web development", "learning", "journey", "beginner"}),
		},
		{
			Title:     ptrTo("Building My First React Application"),
			Excerpt:   ptrTo("Lessons learned while creating my first React.js project and best practices I discovered."),
			Content:   ptrTo(reactPost),
			Category:  ptrTo("Technical"),
			ReadTime:  ptrTo("7 min read"),
			Published: ptrTo(true),
			Featured:  ptrTo(false),
			Tags:      ptrTo([]string{"react", "javascript", "frontend", "tutorial"}),
		},
		{
			Title:     ptrTo("Open Source Contribution Experience"),
			Excerpt:   ptrTo("My experience contributing to GSSOC and how it improved my coding skills."),
			Content:   ptrTo(openSourcePost),
			Category:  ptrTo("Experience"),
			ReadTime:  ptrTo("6 min read"),
			Published: ptrTo(true),
			Featured:  ptrTo(false),
			Tags:      ptrTo([]string{"open source", "gssoc", "contribution", "learning"}),
		},
	}
}

func ptrTo[T any](v T) *T { return &v }

const journeyPost = `# My Journey into Web Development

Starting my journey in web development has been an incredible experience filled with challenges, learning, and growth.

## The Beginning

It all started when I was in Grade 12, working on my Railway Reservation System project. I was fascinated by how websites worked and decided to dive deeper into web technologies.

## Learning HTML & CSS

My first step was mastering HTML and CSS:
- Semantic HTML structure
- CSS layouts and flexbox
- Responsive design principles

## JavaScript Adventures

JavaScript was where things got really interesting: DOM manipulation, event handling and asynchronous programming.

## Current Focus

Now I'm focused on full-stack development, database design and building real-world projects.
`

const reactPost = `# Building My First React Application

Creating my first React application was both exciting and challenging. Here are the key lessons I learned.

## Component Architecture

- Breaking down UI into reusable pieces
- Props and state management
- Component lifecycle

## State Management

- Local component state
- Lifting state up
- Context API for global state

## Conclusion

Building my first React app taught me the importance of planning and understanding the fundamentals.
`

const openSourcePost = `# Open Source Contribution Experience

Participating in GirlScript Summer of Code (GSSOC) significantly improved my development skills.

## First Contribution

- Finding a good first issue
- Understanding the codebase
- Creating a proper pull request

## Advice for Beginners

- Start with documentation improvements
- Look for "good first issue" labels
- Don't be afraid to ask questions

Every contribution, no matter how small, makes a difference!
`
