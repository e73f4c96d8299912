package model

import (
	"bytes"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// MonthNames lists calendar months in order.
var MonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Summary is the derived statistics for a collection of books.
type Summary struct {
	TotalBooks         int                `json:"totalBooks"`
	AverageRating      float64            `json:"averageRating"`
	MostReadGenre      *GenreCount        `json:"mostReadGenre"`
	TotalPagesRead     int                `json:"totalPagesRead"`
	Year               int                `json:"year"`
	BooksPerMonth      MonthCounts        `json:"booksPerMonth"`
	BooksPerYear       Counts             `json:"booksPerYear"`
	RatingDistribution RatingDistribution `json:"ratingDistribution"`
	GenreDistribution  Counts             `json:"genreDistribution"`
}

// GenreCount pairs a genre with the number of books in it.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Count is one entry of an ordered count mapping.
type Count struct {
	Key   string
	Count int
}

// Counts is an ordered mapping from key to count. It encodes as a JSON object
// with keys in slice order.
type Counts []Count

// Get returns the count stored for key.
func (c Counts) Get(key string) (int, bool) {
	for _, entry := range c {
		if entry.Key == key {
			return entry.Count, true
		}
	}
	return 0, false
}

// Keys returns the keys in order.
func (c Counts) Keys() []string {
	keys := make([]string, len(c))
	for i, entry := range c {
		keys[i] = entry.Key
	}
	return keys
}

// Total sums all counts.
func (c Counts) Total() int {
	total := 0
	for _, entry := range c {
		total += entry.Count
	}
	return total
}

// MarshalJSON implements json.Marshaler.
func (c Counts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, entry.Key); err != nil {
			return nil, err
		}
		buf.WriteString(strconv.Itoa(entry.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MonthCounts holds one count per calendar month, January first.
type MonthCounts [12]int

// Get returns the count for a month name, or 0 for an unknown name.
func (m MonthCounts) Get(name string) int {
	for i, month := range MonthNames {
		if month == name {
			return m[i]
		}
	}
	return 0
}

// Total sums all months.
func (m MonthCounts) Total() int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

// MarshalJSON implements json.Marshaler.
func (m MonthCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, MonthNames[i]); err != nil {
			return nil, err
		}
		buf.WriteString(strconv.Itoa(n))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RatingDistribution holds the number of books per rating, index 0 is rating 1.
type RatingDistribution [5]int

// Get returns the count for a rating in 1..5, or 0 outside that range.
func (r RatingDistribution) Get(rating int) int {
	if rating < 1 || rating > 5 {
		return 0
	}
	return r[rating-1]
}

// Total sums all buckets.
func (r RatingDistribution) Total() int {
	total := 0
	for _, n := range r {
		total += n
	}
	return total
}

// MarshalJSON implements json.Marshaler.
func (r RatingDistribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, strconv.Itoa(i+1)); err != nil {
			return nil, err
		}
		buf.WriteString(strconv.Itoa(n))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	quoted, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(quoted)
	buf.WriteByte(':')
	return nil
}
