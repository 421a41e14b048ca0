package music

// Owner identifies the account a playlist belongs to.
type Owner struct {
	UID   int64  `json:"uid"`
	Login string `json:"login,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Playlist is a user-owned playlist. Kind is the playlist identifier local
// to the owning account.
type Playlist struct {
	Kind        int        `json:"kind"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	TrackCount  int        `json:"trackCount"`
	Created     string     `json:"created,omitempty"`
	Modified    string     `json:"modified,omitempty"`
	Owner       Owner      `json:"owner,omitempty"`
	Tracks      []TrackRef `json:"tracks,omitempty"`
}

// LikedArtist is one entry of the liked-artists list.
type LikedArtist struct {
	Artist Artist `json:"artist"`
}

// LikedAlbum is one entry of the liked-albums list.
type LikedAlbum struct {
	Album Album `json:"album"`
}
