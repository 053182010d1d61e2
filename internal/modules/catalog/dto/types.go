package dto

type TaskOutput struct {
	ID       string
	Name     string
	Category string
}
