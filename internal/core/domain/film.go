package domain

// Film is a catalog entry. The session core only carries films in and out of
// user libraries and favourites; it never validates them.
type Film struct {
	ID           int     `json:"id" bson:"id"`
	Title        string  `json:"title" bson:"title"`
	GenreIDs     []int   `json:"genre_ids" bson:"genre_ids"`
	Price        float64 `json:"price" bson:"price"`
	PosterPath   string  `json:"poster_path" bson:"poster_path"`
	BackdropPath string  `json:"backdrop_path" bson:"backdrop_path"`
	ReleaseDate  string  `json:"release_date" bson:"release_date"`
	VoteAverage  float64 `json:"vote_average" bson:"vote_average"`
}

// FavouriteList wraps the favourites array the way the remote records shape
// it: an owned object holding its own film slice.
type FavouriteList struct {
	Films []Film `json:"films" bson:"films"`
}

// IsEmpty reports whether the list has never been populated.
func (l FavouriteList) IsEmpty() bool {
	return len(l.Films) == 0
}

// Clone returns a deep copy of the list.
func (l FavouriteList) Clone() FavouriteList {
	return FavouriteList{Films: append([]Film(nil), l.Films...)}
}
