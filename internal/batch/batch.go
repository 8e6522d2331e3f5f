// Package batch keeps the ordered set of uploaded screenshots and which one
// is currently shown.
package batch

import (
	"image"

	"github.com/google/uuid"
)

// Capacity is the maximum number of images held at once.
const Capacity = 10

// Image is a self-contained uploaded screenshot. Data holds the original
// encoded bytes and Pixels the decoded image, so rendering never has to
// fetch anything.
type Image struct {
	ID     uuid.UUID
	Name   string
	Format string
	Data   []byte
	Pixels image.Image
}

// Store is not safe for concurrent use; the owning session serialises access.
type Store struct {
	images []Image
	active int
}

func New() *Store {
	return &Store{active: -1}
}

func (s *Store) Len() int { return len(s.images) }

// ActiveIndex returns -1 when the batch is empty.
func (s *Store) ActiveIndex() int {
	if len(s.images) == 0 {
		return -1
	}
	return s.active
}

// Active returns the shown image.
func (s *Store) Active() (Image, bool) {
	if len(s.images) == 0 {
		return Image{}, false
	}
	return s.images[s.active], true
}

func (s *Store) At(i int) (Image, bool) {
	if i < 0 || i >= len(s.images) {
		return Image{}, false
	}
	return s.images[i], true
}

// Images returns a copy of the batch in insertion order.
func (s *Store) Images() []Image {
	out := make([]Image, len(s.images))
	copy(out, s.images)
	return out
}

func (s *Store) Remaining() int {
	return Capacity - len(s.images)
}

// Add appends as many images as fit and returns how many were accepted.
// The first accepted image becomes active; overflow is dropped.
func (s *Store) Add(images ...Image) int {
	n := min(s.Remaining(), len(images))
	if n <= 0 {
		return 0
	}
	first := len(s.images)
	for _, img := range images[:n] {
		if img.ID == uuid.Nil {
			img.ID = uuid.New()
		}
		s.images = append(s.images, img)
	}
	s.active = first
	return n
}

// RemoveActive deletes the shown image. Order of the rest is preserved.
func (s *Store) RemoveActive() (Image, bool) {
	if len(s.images) == 0 {
		return Image{}, false
	}
	removed := s.images[s.active]
	s.images = append(s.images[:s.active], s.images[s.active+1:]...)
	if len(s.images) == 0 {
		s.active = -1
	} else {
		s.active = min(s.active, len(s.images)-1)
	}
	return removed, true
}

// SetActiveIndex ignores out of range indices.
func (s *Store) SetActiveIndex(i int) bool {
	if i < 0 || i >= len(s.images) {
		return false
	}
	s.active = i
	return true
}

// Navigate moves the active index by delta, clamped to the batch bounds.
func (s *Store) Navigate(delta int) int {
	if len(s.images) == 0 {
		return -1
	}
	next := s.active + delta
	if next < 0 {
		next = 0
	}
	if next > len(s.images)-1 {
		next = len(s.images) - 1
	}
	s.active = next
	return next
}
