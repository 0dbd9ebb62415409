package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Laisky/errors/v2"
)

// NoDate is shown in listings for posts saved without a date.
const NoDate = "No date"

type Post struct {
	Title   string   `json:"title"`
	Date    PostDate `json:"date"`
	Content string   `json:"content"`
}

// PostDate is the date of a post as entered in the editor. Older records may
// carry a unix millisecond timestamp instead of text; both decode to a string.
type PostDate string

func (d *PostDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decode date string")
		}
		*d = PostDate(s)
		return nil
	}

	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return errors.Wrapf(err, "decode date `%s`", data)
	}
	*d = PostDate(time.UnixMilli(ms).UTC().Format(time.RFC3339))
	return nil
}

func (d PostDate) String() string {
	return string(d)
}

// ListingEntry is one row of the public or admin post listing.
type ListingEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
	Link  string `json:"link"`
}

// Session is the per-client state kept in the session cookie.
type Session struct {
	Authenticated bool `json:"authenticated"`
}
