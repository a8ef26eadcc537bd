package models

// Professional holds the bio attributes read from the sheet's optional bio
// columns. Rebuilt wholesale on each sync that carries them.
type Professional struct {
	Name            string   `json:"name"`
	Title           string   `json:"title"`
	Bio             string   `json:"bio"`
	Specializations []string `json:"specializations"`
	Areas           []string `json:"areas"`
	Fallback        bool     `json:"-"`
}
