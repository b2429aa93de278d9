package forms

import (
	"strconv"
	"strings"
	"time"

	"blogicum/internal/models"
)

// PubDateLayout is the textual format of pub_date, as sent by a
// datetime-local input.
const PubDateLayout = "2006-01-02T15:04"

var pubDateLayouts = []string{PubDateLayout, "2006-01-02T15:04:05", "2006-01-02 15:04"}

// PostInput is the submitted post form. The image file travels separately in
// the multipart body and is handled by the media service.
type PostInput struct {
	Title      string `form:"title" validate:"required,max=256"`
	Text       string `form:"text" validate:"required"`
	PubDate    string `form:"pub_date" validate:"required"`
	Location   string `form:"location"`
	Category   string `form:"category"`
	ClearImage string `form:"image-clear"`
}

// Choices are the categories and locations a post may reference.
type Choices struct {
	Categories []models.Category
	Locations  []models.Location
}

// PostData is a validated post form.
type PostData struct {
	Title      string
	Text       string
	PubDate    time.Time
	CategoryID *uint
	LocationID *uint
	ClearImage bool
}

func checked(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// NewPostInput is the initial state of the create form.
func NewPostInput(now time.Time, loc *time.Location) PostInput {
	return PostInput{PubDate: FormatPubDate(now, loc)}
}

// PostInputOf fills the form from an existing post.
func PostInputOf(p *models.Post, loc *time.Location) PostInput {
	in := PostInput{
		Title:   p.Title,
		Text:    p.Text,
		PubDate: FormatPubDate(p.PubDate, loc),
	}
	if p.CategoryID != nil {
		in.Category = strconv.FormatUint(uint64(*p.CategoryID), 10)
	}
	if p.LocationID != nil {
		in.Location = strconv.FormatUint(uint64(*p.LocationID), 10)
	}
	return in
}

// FormatPubDate renders t in the site time zone using PubDateLayout.
func FormatPubDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(PubDateLayout)
}

// ParsePubDate reads a wall clock time in loc and returns it in UTC.
func ParsePubDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range pubDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Validate checks the input and resolves the selected category and location
// against choices. loc is the zone pub_date is entered in.
func (in PostInput) Validate(loc *time.Location, choices Choices) (PostData, FieldErrors) {
	in.Title = strings.TrimSpace(in.Title)
	in.Text = strings.TrimSpace(in.Text)

	errs := check(in)
	data := PostData{
		Title:      in.Title,
		Text:       in.Text,
		ClearImage: checked(in.ClearImage),
	}

	if in.PubDate != "" {
		if t, ok := ParsePubDate(in.PubDate, loc); ok {
			data.PubDate = t
		} else {
			errs.Add("pub_date", "Enter a valid date/time.")
		}
	}

	if id, ok := choose(in.Category, categoryIDs(choices.Categories)); ok {
		data.CategoryID = id
	} else {
		errs.Add("category", invalidChoice)
	}
	if id, ok := choose(in.Location, locationIDs(choices.Locations)); ok {
		data.LocationID = id
	} else {
		errs.Add("location", invalidChoice)
	}

	return data, errs
}

// Apply copies the validated fields onto p. Publication is managed by
// administrators and is left alone.
func (d PostData) Apply(p *models.Post) {
	p.Title = d.Title
	p.Text = d.Text
	p.PubDate = d.PubDate
	p.CategoryID = d.CategoryID
	p.LocationID = d.LocationID
	// Stale preloads would otherwise disagree with the new ids.
	p.Category = nil
	p.Location = nil
}

const invalidChoice = "Select a valid choice. That choice is not one of the available choices."

// choose parses an optional id; the empty string selects nothing.
func choose(raw string, allowed map[uint]bool) (*uint, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || !allowed[uint(n)] {
		return nil, false
	}
	id := uint(n)
	return &id, true
}

func categoryIDs(cs []models.Category) map[uint]bool {
	ids := make(map[uint]bool, len(cs))
	for _, c := range cs {
		ids[c.ID] = true
	}
	return ids
}

func locationIDs(ls []models.Location) map[uint]bool {
	ids := make(map[uint]bool, len(ls))
	for _, l := range ls {
		ids[l.ID] = true
	}
	return ids
}
