// Package seed loads sample boards for a user from a YAML fixture.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kanban-dev/kanban/internal/kanban"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultFixture []byte

type Fixture struct {
	Boards []BoardFixture `yaml:"boards"`
}

type BoardFixture struct {
	Name  string        `yaml:"name"`
	Tasks []TaskFixture `yaml:"tasks"`
}

// TaskFixture names its column; tasks keep the order they are listed in.
type TaskFixture struct {
	Column      string   `yaml:"column"`
	Title       string   `yaml:"title"`
	Subtitle    string   `yaml:"subtitle"`
	Link        string   `yaml:"link"`
	Description string   `yaml:"description"`
	Labels      []string `yaml:"labels"`
	Priority    string   `yaml:"priority"`
	DueInDays   *int     `yaml:"due_in_days"`
}

// Default returns the built-in sample fixture.
func Default() (*Fixture, error) {
	return Parse(defaultFixture)
}

func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixture, error) {
	var fixture Fixture

	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}

	for i, b := range fixture.Boards {
		if strings.TrimSpace(b.Name) == "" {
			return nil, fmt.Errorf("fixture board %d has no name", i)
		}
	}

	return &fixture, nil
}

type Result struct {
	Boards int
	Tasks  int
}

// Apply replaces each fixture board the user already has with a fresh copy.
// now anchors relative due dates.
func Apply(ctx context.Context, svc *kanban.Service, userID uuid.UUID, fixture *Fixture, now time.Time) (Result, error) {
	var result Result

	for _, bf := range fixture.Boards {
		if err := dropExisting(ctx, svc, userID, bf.Name); err != nil {
			return result, err
		}

		board, _, err := svc.CreateBoard(ctx, userID, bf.Name)
		if err != nil {
			return result, fmt.Errorf("failed to create board %q: %w", bf.Name, err)
		}

		view, err := svc.GetBoard(ctx, userID, board.ID)
		if err != nil {
			return result, err
		}

		columns := make(map[string]uuid.UUID, len(view.Columns))
		for _, cv := range view.Columns {
			columns[cv.Column.Name] = cv.Column.ID
		}

		for _, tf := range bf.Tasks {
			columnID, ok := columns[tf.Column]
			if !ok {
				return result, fmt.Errorf("board %q has no column %q", bf.Name, tf.Column)
			}

			in := kanban.TaskInput{
				BoardID:     board.ID,
				ColumnID:    columnID,
				Title:       tf.Title,
				Subtitle:    tf.Subtitle,
				Link:        tf.Link,
				Description: tf.Description,
				Labels:      tf.Labels,
				Priority:    tf.Priority,
			}
			if tf.DueInDays != nil {
				in.DueDate = now.AddDate(0, 0, *tf.DueInDays).Format("2006-01-02")
			}

			if _, err := svc.CreateTask(ctx, userID, in); err != nil {
				return result, fmt.Errorf("failed to create task %q: %w", tf.Title, err)
			}
			result.Tasks++
		}

		result.Boards++
		log.Printf("[seed] board %q seeded with %d task(s)", bf.Name, len(bf.Tasks))
	}

	return result, nil
}

func dropExisting(ctx context.Context, svc *kanban.Service, userID uuid.UUID, name string) error {
	boards, err := svc.ListBoards(ctx, userID, kanban.ScopeMine, name)
	if err != nil {
		return err
	}

	for _, b := range boards {
		if b.Name != strings.TrimSpace(name) {
			continue
		}
		if err := svc.DeleteBoard(ctx, userID, b.ID); err != nil {
			return err
		}
	}

	return nil
}
