// Package catalog loads and seeds the static study catalog: subjects
// with their chapters, topics and practice exams, plus the title and
// badge definitions. Files are validated against an embedded JSON
// Schema before anything touches the database.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/hikaru/benkyo/internal/store"
)

//go:embed schema.json
var schemaJSON []byte

//go:embed default.json
var defaultJSON []byte

// File is the top-level shape of a catalog file.
type File struct {
	Subjects []Subject `json:"subjects"`
	Titles   []Title   `json:"titles"`
	Badges   []Badge   `json:"badges"`
}

type Subject struct {
	ID         string    `json:"id"`
	ExamType   string    `json:"exam_type"`
	Name       string    `json:"name"`
	OrderIndex int       `json:"order_index"`
	Chapters   []Chapter `json:"chapters"`
	Exams      []Exam    `json:"exams"`
}

type Chapter struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	OrderIndex int     `json:"order_index"`
	Topics     []Topic `json:"topics"`
}

type Topic struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	OrderIndex int    `json:"order_index"`
}

type Exam struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ExamNumber int    `json:"exam_number"`
}

// Requirement is the unlock predicate carried by titles and badges.
// Which fields apply depends on Type; the schema enforces the valid
// combinations.
type Requirement struct {
	Type      string `json:"type"`
	SubjectID string `json:"subject_id,omitempty"`
	Rank      string `json:"rank,omitempty"`
	Value     int    `json:"value,omitempty"`
}

type Title struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Rarity      string      `json:"rarity"`
	Requirement Requirement `json:"requirement"`
	GearPoints  int         `json:"gear_points,omitempty"`
}

type Badge struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Icon        string      `json:"icon,omitempty"`
	Requirement Requirement `json:"requirement"`
	GearPoints  int         `json:"gear_points,omitempty"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var parsed any
		if err := json.Unmarshal(schemaJSON, &parsed); err != nil {
			schemaErr = fmt.Errorf("parse embedded schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://catalog.json"
		if err := c.AddResource(url, parsed); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = c.Compile(url)
	})
	return schema, schemaErr
}

// Load validates raw catalog JSON against the schema and decodes it.
func Load(data []byte) (*File, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := compiled.Validate(parsed); err != nil {
		return nil, fmt.Errorf("catalog validation failed: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &f, nil
}

// Default returns the built-in catalog.
func Default() (*File, error) {
	return Load(defaultJSON)
}

// Summary counts what a seeding pass walked over. Existing rows are
// left untouched, so the counts cover definitions seen, not inserted.
type Summary struct {
	Subjects int
	Chapters int
	Topics   int
	Exams    int
	Titles   int
	Badges   int
}

// Seed writes the catalog into the store in one transaction.
// Definitions already present keep their stored values; seeding is
// insert-or-ignore all the way down.
func Seed(ctx context.Context, st *store.Store, f *File) (*Summary, error) {
	sum := &Summary{}
	err := st.InTx(ctx, func(r *store.Repos) error {
		for _, sub := range f.Subjects {
			err := r.Catalog.SeedSubject(ctx, store.Subject{
				ID:         sub.ID,
				ExamType:   sub.ExamType,
				Name:       sub.Name,
				OrderIndex: sub.OrderIndex,
			})
			if err != nil {
				return err
			}
			sum.Subjects++

			for _, ch := range sub.Chapters {
				err := r.Catalog.SeedChapter(ctx, store.Chapter{
					ID:         ch.ID,
					SubjectID:  sub.ID,
					Name:       ch.Name,
					OrderIndex: ch.OrderIndex,
				})
				if err != nil {
					return err
				}
				sum.Chapters++

				for _, tp := range ch.Topics {
					err := r.Catalog.SeedTopic(ctx, store.Topic{
						ID:         tp.ID,
						ChapterID:  ch.ID,
						Name:       tp.Name,
						OrderIndex: tp.OrderIndex,
					})
					if err != nil {
						return err
					}
					sum.Topics++
				}
			}
			for _, ex := range sub.Exams {
				err := r.Catalog.SeedPracticeExam(ctx, store.PracticeExam{
					ID:         ex.ID,
					SubjectID:  sub.ID,
					Name:       ex.Name,
					ExamNumber: ex.ExamNumber,
				})
				if err != nil {
					return err
				}
				sum.Exams++
			}
		}

		for _, t := range f.Titles {
			err := r.Achievements.SeedTitle(ctx, store.Title{
				ID:                   t.ID,
				Name:                 t.Name,
				Description:          t.Description,
				Rarity:               t.Rarity,
				RequirementType:      t.Requirement.Type,
				RequirementSubjectID: optStr(t.Requirement.SubjectID),
				RequirementRank:      optStr(t.Requirement.Rank),
				RequirementValue:     optInt(t.Requirement.Value),
				GearPoints:           t.GearPoints,
			})
			if err != nil {
				return err
			}
			sum.Titles++
		}
		for _, b := range f.Badges {
			err := r.Achievements.SeedBadge(ctx, store.Badge{
				ID:                   b.ID,
				Name:                 b.Name,
				Description:          b.Description,
				Icon:                 b.Icon,
				RequirementType:      b.Requirement.Type,
				RequirementSubjectID: optStr(b.Requirement.SubjectID),
				RequirementRank:      optStr(b.Requirement.Rank),
				RequirementValue:     optInt(b.Requirement.Value),
				GearPoints:           b.GearPoints,
			})
			if err != nil {
				return err
			}
			sum.Badges++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	return sum, nil
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
