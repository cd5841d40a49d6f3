// Package types holds the entity records shared by every nanoboard package.
//
// The board side forms a tree: Graph → Workspace → Board → Group → Item,
// with Comments and Subtasks hanging off each Item. Children are held by
// pointer so that the mutation layer can return a new tree that shares every
// untouched node with the old one.
package types

import "time"

// Graph is the root of the board entity tree
type Graph struct {
	Workspaces []*Workspace `json:"workspaces" yaml:"workspaces"`
}

// Workspace owns an ordered list of boards
type Workspace struct {
	ID     string   `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Boards []*Board `json:"boards" yaml:"boards"`
}

// Board owns an ordered list of groups
type Board struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Groups      []*Group `json:"groups" yaml:"groups"`
}

// Group is a colored section of a board. Its ID is unique within the board.
type Group struct {
	ID    string  `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Color string  `json:"color" yaml:"color"`
	Items []*Item `json:"items" yaml:"items"`
}

// Timeline is a free-form start/end label pair as entered by the user
type Timeline struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Item is a single row on a board
type Item struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	OwnerID     string     `json:"ownerId,omitempty" yaml:"ownerId,omitempty"` // weak reference to a user
	Status      Status     `json:"status" yaml:"status"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	Timeline    *Timeline  `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	LastUpdated time.Time  `json:"lastUpdated" yaml:"lastUpdated"`
	Description string     `json:"description" yaml:"description"`
	Comments    []*Comment `json:"comments" yaml:"comments"`
	Subtasks    []*Subtask `json:"subtasks" yaml:"subtasks"`
}

// Comment is immutable once posted, except for its likes
type Comment struct {
	ID         string    `json:"id" yaml:"id"`
	Text       string    `json:"text" yaml:"text"`
	AuthorName string    `json:"authorName" yaml:"authorName"`
	AuthorID   string    `json:"authorId" yaml:"authorId"`
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`
	LikedBy    []string  `json:"likedBy" yaml:"likedBy"`
}

// IsLikedBy reports whether userID is among the likers
func (c *Comment) IsLikedBy(userID string) bool {
	for _, id := range c.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Subtask is an item-like checklist entry with no children of its own
type Subtask struct {
	ID      string     `json:"id" yaml:"id"`
	Name    string     `json:"name" yaml:"name"`
	Status  Status     `json:"status" yaml:"status"`
	OwnerID string     `json:"ownerId,omitempty" yaml:"ownerId,omitempty"`
	DueDate *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
}

// Boards returns every board across all workspaces, in order
func (g *Graph) Boards() []*Board {
	if g == nil {
		return nil
	}
	var boards []*Board
	for _, ws := range g.Workspaces {
		boards = append(boards, ws.Boards...)
	}
	return boards
}
