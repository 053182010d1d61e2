package dto

import "time"

type FiredOutput struct {
	Kind    string
	EntryID string
	FiredAt time.Time
	Message string
}

type NotifierInfo struct {
	Name    string
	Version string
	Binary  string
	Enabled bool
}

type NotifierCheck struct {
	Name        string
	Reachable   bool
	ChecksumOK  bool
	LifecycleOK bool
	Error       string
}
