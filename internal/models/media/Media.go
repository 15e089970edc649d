// This file contains the media Type enumeration and the Record structs for each of the six media kinds.
// Records are normalized from calls to external APIs and cached in per-type MongoDB collections.
//
// When interacting with MongoDB, bson tags are used to specify the field names in the database.
// Record IDs come from the external API that sourced the record, so they are plain strings and are
// not managed by MongoDB. Every record carries a numQueues counter holding the number of queues that
// currently reference it.

package media

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMediaType is returned when a string does not name one of the six media types.
	ErrUnknownMediaType = errors.New("unknown media type")
	// ErrRecordNotFound is returned when a requested record is not in the cache.
	ErrRecordNotFound = errors.New("media record not found")
)

// Type identifies one of the six media kinds.
type Type string

const (
	TypeMovie     Type = "Movie"
	TypeTV        Type = "TV"
	TypeAlbum     Type = "Album"
	TypeBook      Type = "Book"
	TypeVideoGame Type = "VideoGame"
	TypePodcast   Type = "Podcast"
)

// AllTypes lists every media type, in the order queue fan-out iterates them.
var AllTypes = []Type{TypeMovie, TypeTV, TypeAlbum, TypeBook, TypeVideoGame, TypePodcast}

// descriptor fixes the storage details for a media type: the collection its
// records live in, the discriminator string stored on queues of that type,
// and a constructor for an empty record to decode into.
type descriptor struct {
	collection    string
	discriminator string
	newRecord     func() Record
}

var descriptors = map[Type]descriptor{
	TypeMovie:     {"Movie", "MovieModel", func() Record { return &Movie{} }},
	TypeTV:        {"TV", "TVModel", func() Record { return &TV{} }},
	TypeAlbum:     {"Album", "AlbumModel", func() Record { return &Album{} }},
	TypeBook:      {"Book", "BookModel", func() Record { return &Book{} }},
	TypeVideoGame: {"VideoGame", "VideoGameModel", func() Record { return &VideoGame{} }},
	TypePodcast:   {"Podcast", "PodcastModel", func() Record { return &Podcast{} }},
}

// ParseType converts a string into a Type.
// Returns ErrUnknownMediaType if the string is not one of the six media types.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if _, ok := descriptors[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMediaType, s)
	}
	return t, nil
}

// Valid reports whether t is one of the six media types.
func (t Type) Valid() bool {
	_, ok := descriptors[t]
	return ok
}

// Collection returns the name of the MongoDB collection for this type's records.
func (t Type) Collection() string {
	return descriptors[t].collection
}

// Discriminator returns the media discriminator stored on queues of this type.
// It is a deterministic function of the type.
func (t Type) Discriminator() string {
	return descriptors[t].discriminator
}

// NewRecord returns an empty record of this type, suitable for decoding into.
func (t Type) NewRecord() Record {
	return descriptors[t].newRecord()
}

// Record is a cached, normalized external-API media item.
type Record interface {
	// RecordID returns the external-API-derived id used as the Mongo _id.
	RecordID() string
	// Kind returns the media type the record belongs to.
	Kind() Type
}

// Movie is a normalized TMDB movie.
type Movie struct {
	ID          string   `bson:"_id" json:"_id"`
	Title       string   `bson:"title" json:"title"`
	Director    string   `bson:"director" json:"director"`
	Description string   `bson:"description" json:"description"`
	ReleaseDate string   `bson:"releaseDate" json:"releaseDate"`
	PosterPath  string   `bson:"posterPath" json:"posterPath"`
	Cast        []string `bson:"cast" json:"cast"`
	Genres      []string `bson:"genres" json:"genres"`
	Runtime     int      `bson:"runtime" json:"runtime"`
	SourceURL   string   `bson:"sourceUrl" json:"sourceUrl"`
	NumQueues   int      `bson:"numQueues" json:"numQueues"`
}

func (m *Movie) RecordID() string { return m.ID }
func (m *Movie) Kind() Type       { return TypeMovie }

// TV is a normalized TMDB TV show.
type TV struct {
	ID            string   `bson:"_id" json:"_id"`
	Title         string   `bson:"title" json:"title"`
	PosterPath    string   `bson:"posterPath" json:"posterPath"`
	Description   string   `bson:"description" json:"description"`
	FirstAirDate  string   `bson:"firstAirDate" json:"firstAirDate"`
	LastAirDate   string   `bson:"lastAirDate" json:"lastAirDate"`
	Cast          []string `bson:"cast" json:"cast"`
	Genres        []string `bson:"genres" json:"genres"`
	Creator       string   `bson:"creator" json:"creator"`
	TotalEpisodes int      `bson:"totalEpisodes" json:"totalEpisodes"`
	TotalSeasons  int      `bson:"totalSeasons" json:"totalSeasons"`
	SourceURL     string   `bson:"sourceUrl" json:"sourceUrl"`
	NumQueues     int      `bson:"numQueues" json:"numQueues"`
}

func (t *TV) RecordID() string { return t.ID }
func (t *TV) Kind() Type       { return TypeTV }

// Album is a normalized Spotify album.
type Album struct {
	ID          string   `bson:"_id" json:"_id"`
	Title       string   `bson:"title" json:"title"`
	Artist      string   `bson:"artist" json:"artist"`
	Label       string   `bson:"label" json:"label"`
	CoverArt    string   `bson:"coverArt" json:"coverArt"`
	ReleaseDate string   `bson:"releaseDate" json:"releaseDate"`
	Tracks      []string `bson:"tracks" json:"tracks"`
	SourceURL   string   `bson:"sourceUrl" json:"sourceUrl"`
	NumQueues   int      `bson:"numQueues" json:"numQueues"`
}

func (a *Album) RecordID() string { return a.ID }
func (a *Album) Kind() Type       { return TypeAlbum }

// Book is a normalized Google Books volume.
type Book struct {
	ID            string   `bson:"_id" json:"_id"`
	Title         string   `bson:"title" json:"title"`
	Authors       []string `bson:"authors" json:"authors"`
	Synopsis      string   `bson:"synopsis" json:"synopsis"`
	Publisher     string   `bson:"publisher" json:"publisher"`
	CoverArt      string   `bson:"coverArt" json:"coverArt"`
	DatePublished string   `bson:"datePublished" json:"datePublished"`
	Pages         int      `bson:"pages" json:"pages"`
	SourceURL     string   `bson:"sourceUrl" json:"sourceUrl"`
	NumQueues     int      `bson:"numQueues" json:"numQueues"`
}

func (b *Book) RecordID() string { return b.ID }
func (b *Book) Kind() Type       { return TypeBook }

// VideoGame is a normalized IGDB game.
type VideoGame struct {
	ID          string   `bson:"_id" json:"_id"`
	Title       string   `bson:"title" json:"title"`
	Summary     string   `bson:"summary" json:"summary"`
	ReleaseDate string   `bson:"releaseDate" json:"releaseDate"`
	CoverArt    string   `bson:"coverArt" json:"coverArt"`
	Genres      []string `bson:"genres" json:"genres"`
	Companies   []string `bson:"companies" json:"companies"`
	Platforms   []string `bson:"platforms" json:"platforms"`
	SourceURL   string   `bson:"sourceUrl" json:"sourceUrl"`
	NumQueues   int      `bson:"numQueues" json:"numQueues"`
}

func (v *VideoGame) RecordID() string { return v.ID }
func (v *VideoGame) Kind() Type       { return TypeVideoGame }

// Podcast is a normalized Spotify show.
type Podcast struct {
	ID                string   `bson:"_id" json:"_id"`
	Title             string   `bson:"title" json:"title"`
	Description       string   `bson:"description" json:"description"`
	CoverArt          string   `bson:"coverArt" json:"coverArt"`
	Publisher         string   `bson:"publisher" json:"publisher"`
	LatestEpisodeDate string   `bson:"latestEpisodeDate" json:"latestEpisodeDate"`
	Episodes          []string `bson:"episodes" json:"episodes"`
	SourceURL         string   `bson:"sourceUrl" json:"sourceUrl"`
	NumQueues         int      `bson:"numQueues" json:"numQueues"`
}

func (p *Podcast) RecordID() string { return p.ID }
func (p *Podcast) Kind() Type       { return TypePodcast }
