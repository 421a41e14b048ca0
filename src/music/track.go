package music

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ID is a Yandex Music identifier. The API returns ids both as JSON numbers
// and as strings depending on the endpoint, so we accept either.
type ID string

// UnmarshalJSON accepts a string, a number or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Artist as it appears on a track or in the liked-artists list.
type Artist struct {
	ID     ID       `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres,omitempty"`
}

// Album as embedded in a track or in the liked-albums list.
type Album struct {
	ID         ID       `json:"id"`
	Title      string   `json:"title"`
	Genre      string   `json:"genre,omitempty"`
	Year       int      `json:"year,omitempty"`
	TrackCount int      `json:"trackCount,omitempty"`
	Artists    []Artist `json:"artists,omitempty"`
}

// Track is a full track object as returned by the batch tracks endpoint.
type Track struct {
	ID          ID       `json:"id"`
	RealID      ID       `json:"realId,omitempty"`
	Title       string   `json:"title"`
	Artists     []Artist `json:"artists"`
	Albums      []Album  `json:"albums"`
	DurationMs  int64    `json:"durationMs,omitempty"`
	DurationSec int64    `json:"duration,omitempty"`
	Genre       string   `json:"genre,omitempty"`
	Available   bool     `json:"available,omitempty"`
	LyricsInfo  *struct {
		HasAvailableTextLyrics bool `json:"hasAvailableTextLyrics"`
	} `json:"lyricsAvailableInfo,omitempty"`
}

// Key returns the canonical "trackId:albumId" identity for the track, or the
// bare track id when it has no albums.
func (t *Track) Key() string {
	if t == nil || t.ID == "" {
		return ""
	}
	if len(t.Albums) > 0 && t.Albums[0].ID != "" {
		return string(t.ID) + ":" + string(t.Albums[0].ID)
	}
	return string(t.ID)
}

// ArtistNames returns the names of all credited artists, in order, with
// unnamed entries skipped.
func (t *Track) ArtistNames() []string {
	var names []string
	for _, a := range t.Artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names
}

// ResolveGenre returns the track's own genre when set, falling back to the
// genre of the first album the track belongs to.
func (t *Track) ResolveGenre() string {
	if t.Genre != "" {
		return t.Genre
	}
	for _, al := range t.Albums {
		if al.Genre != "" {
			return al.Genre
		}
	}
	return ""
}

// DurationMillis returns the track duration in milliseconds, preferring the
// millisecond field and converting the seconds field when that is all the
// upstream provided. Zero means unknown.
func (t *Track) DurationMillis() int64 {
	if t.DurationMs > 0 {
		return t.DurationMs
	}
	if t.DurationSec > 0 {
		return t.DurationSec * 1000
	}
	return 0
}

// TrackRef is a lightweight track reference from the likes list, a playlist
// or a history entry. Archived payloads spell the album reference two ways
// and may embed the full track object.
type TrackRef struct {
	ID         ID     `json:"id"`
	TrackID    ID     `json:"trackId"`
	AlbumID    ID     `json:"albumId"`
	AlbumIDAlt ID     `json:"album_id"`
	Track      *Track `json:"track,omitempty"`

	// Raw timestamp candidates. Kept raw because the API mixes ISO strings
	// and epoch numbers across endpoints.
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
	Added     json.RawMessage `json:"added,omitempty"`
	PlayTS    json.RawMessage `json:"play_ts,omitempty"`
	Played    json.RawMessage `json:"played,omitempty"`
}

// Key reduces the reference to its canonical "trackId:albumId" identity.
// Returns "" for a reference that carries no id at all; such a reference can
// never be resolved upstream and must be dropped.
func (r *TrackRef) Key() string {
	id := r.ID
	if id == "" {
		id = r.TrackID
	}
	album := r.AlbumID
	if album == "" {
		album = r.AlbumIDAlt
	}
	if id == "" {
		if r.Track != nil {
			return r.Track.Key()
		}
		return ""
	}
	if album != "" {
		return string(id) + ":" + string(album)
	}
	return string(id)
}

// RefFromKey parses a canonical identity string ("trackId" or
// "trackId:albumId") back into a reference, so Key(RefFromKey(s)) == s.
func RefFromKey(key string) TrackRef {
	if id, album, ok := strings.Cut(key, ":"); ok {
		return TrackRef{ID: ID(id), AlbumID: ID(album)}
	}
	return TrackRef{ID: ID(key)}
}
