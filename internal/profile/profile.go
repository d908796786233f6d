// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package profile serves the static "about me" data shown next to the
// portfolio: personal info, skills and experience.
package profile

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

//go:embed default.json
var defaultProfile []byte

// Info is the owner's personal information.
type Info struct {
	Name        string            `json:"name"`
	Title       string            `json:"title"`
	Email       string            `json:"email"`
	Bio         string            `json:"bio"`
	Location    string            `json:"location"`
	SocialLinks map[string]string `json:"socialLinks"`
	Avatar      *string           `json:"avatar"`
	Resume      *string           `json:"resume"`
}

// Skill is one entry of the skills list. Level is a percentage.
type Skill struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Logo     string `json:"logo"`
	Category string `json:"category"`
}

// Experience is one position or contribution.
type Experience struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Duration    string   `json:"duration"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
}

// Profile groups all static profile data.
type Profile struct {
	Info       Info         `json:"info"`
	Skills     []Skill      `json:"skills"`
	Experience []Experience `json:"experience"`
}

// Default returns the built-in profile.
func Default() *Profile {
	p, err := Parse(defaultProfile)
	if err != nil {
		panic("profile: invalid embedded default: " + err.Error())
	}
	return p
}

// Load reads a profile from path, or returns the built-in one when path is empty.
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates profile JSON. Unknown fields are rejected.
func Parse(data []byte) (*Profile, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()

	var p Profile
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	if p.Skills == nil {
		p.Skills = []Skill{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	return &p, nil
}

func (p *Profile) validate() error {
	var errs []error
	if strings.TrimSpace(p.Info.Name) == "" {
		errs = append(errs, errors.New("info.name is required"))
	}
	for i, s := range p.Skills {
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("skills[%d].name is required", i))
		}
		if s.Level < 0 || s.Level > 100 {
			errs = append(errs, fmt.Errorf("skills[%d].level must be between 0 and 100", i))
		}
	}
	for i, e := range p.Experience {
		if e.Title == "" {
			errs = append(errs, fmt.Errorf("experience[%d].title is required", i))
		}
	}
	return errors.Join(errs...)
}
