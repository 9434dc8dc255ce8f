// Package model holds the todo records exchanged with the server.
package model

import "strconv"

// ID is the server-assigned identifier of a todo. The client never makes one up.
type ID int

func (id ID) String() string { return strconv.Itoa(int(id)) }

// ParseID parses a decimal identifier as typed on the command line.
func ParseID(s string) (ID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return ID(n), nil
}

// Todo is a record as the collection API returns it.
type Todo struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Draft is the body sent on create and update.
// Completion cannot be toggled from this client, so NewDraft always clears it.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// NewDraft builds a request body from form text.
func NewDraft(title, description string) Draft {
	return Draft{Title: title, Description: description}
}
