package domain

import "fmt"

// Category is the fixed set of work classifications a task can carry.
type Category string

const (
	CategoryGrooming      Category = "grooming"
	CategoryDevelopment   Category = "development"
	CategoryQA            Category = "qa"
	CategoryDocumentation Category = "documentation"
	CategoryTesting       Category = "testing"
)

func (c Category) Validate() error {
	switch c {
	case CategoryGrooming, CategoryDevelopment, CategoryQA, CategoryDocumentation, CategoryTesting:
		return nil
	default:
		return fmt.Errorf("unknown category: %s", c)
	}
}

// Task is immutable reference data loaded at startup.
type Task struct {
	ID       string
	Name     string
	Category Category
}

func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("task name is required")
	}
	return t.Category.Validate()
}
