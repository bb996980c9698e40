package model

import "strings"

// Category groups challenges by discipline.
type Category string

const (
	CategoryCrypto    Category = "crypto"
	CategoryPwn       Category = "pwn"
	CategoryWeb       Category = "web"
	CategoryReverse   Category = "reverse"
	CategoryForensics Category = "forensics"
)

// Categories lists every known category in display order.
var Categories = []Category{CategoryCrypto, CategoryPwn, CategoryWeb, CategoryReverse, CategoryForensics}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Difficulty is ordered: easy < medium < hard.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	return d.Level() > 0
}

// Level returns 1 for easy up to 3 for hard, 0 for unknown values.
func (d Difficulty) Level() int {
	for i, known := range Difficulties {
		if d == known {
			return i + 1
		}
	}
	return 0
}

// FilterAll is the sentinel filter value that matches every challenge.
const FilterAll = "all"

// File is a downloadable attachment of a challenge.
type File struct {
	Name string `json:"name" bson:"name"`
	URL  string `json:"url" bson:"url"`
}

// Challenge is a catalog record. Records are never edited after seeding.
type Challenge struct {
	ID          int        `json:"id" bson:"challenge_id"`
	Title       string     `json:"title" bson:"title"`
	Category    Category   `json:"category" bson:"category"`
	Difficulty  Difficulty `json:"difficulty" bson:"difficulty"`
	Points      int        `json:"points" bson:"points"`
	Description string     `json:"description" bson:"description"`
	Tags        []string   `json:"tags" bson:"tags"`
	Files       []File     `json:"files" bson:"files"`
	Hints       []string   `json:"hints" bson:"hints"`
}

// Summary is the first line of the description.
func (c Challenge) Summary() string {
	if i := strings.IndexByte(c.Description, '\n'); i >= 0 {
		return c.Description[:i]
	}
	return c.Description
}

// Clone returns a copy that shares no slices with c.
func (c Challenge) Clone() Challenge {
	out := c
	out.Tags = append([]string(nil), c.Tags...)
	out.Files = append([]File(nil), c.Files...)
	out.Hints = append([]string(nil), c.Hints...)
	return out
}
