package gallery

import (
	"github.com/google/uuid"
	"github.com/rpupo63/photo-portfolio/errs"
)

// Lightbox keys understood by HandleKey.
const (
	KeyNext  = "ArrowRight"
	KeyPrev  = "ArrowLeft"
	KeyClose = "Escape"
)

// Cursor walks the displayed photo list one photo at a time. It is either
// closed or open at an index into the list.
type Cursor struct {
	ids   []uuid.UUID
	index int
	open  bool
}

func NewCursor(ids []uuid.UUID) *Cursor {
	c := &Cursor{}
	c.ids = append(c.ids, ids...)
	return c
}

func (c *Cursor) IsOpen() bool { return c.open }

func (c *Cursor) Index() int { return c.index }

func (c *Cursor) Len() int { return len(c.ids) }

// Open positions the cursor on the photo at index.
func (c *Cursor) Open(index int) error {
	if index < 0 || index >= len(c.ids) {
		return errs.NewLightboxIndexError(index, len(c.ids))
	}
	c.index = index
	c.open = true
	return nil
}

// OpenAt opens the cursor on the photo with the given id.
func (c *Cursor) OpenAt(id uuid.UUID) error {
	for i, v := range c.ids {
		if v == id {
			return c.Open(i)
		}
	}
	return errs.NewNotInListError(id)
}

func (c *Cursor) Close() {
	c.open = false
	c.index = 0
}

// Next wraps from the last photo to the first.
func (c *Cursor) Next() {
	if !c.open {
		return
	}
	c.index = (c.index + 1) % len(c.ids)
}

// Prev wraps from the first photo to the last.
func (c *Cursor) Prev() {
	if !c.open {
		return
	}
	c.index = (c.index - 1 + len(c.ids)) % len(c.ids)
}

// HandleKey applies a keyboard binding; keys are ignored while closed.
// It reports whether the key was consumed.
func (c *Cursor) HandleKey(key string) bool {
	if !c.open {
		return false
	}
	switch key {
	case KeyNext:
		c.Next()
	case KeyPrev:
		c.Prev()
	case KeyClose:
		c.Close()
	default:
		return false
	}
	return true
}

// Current returns the id under the cursor.
func (c *Cursor) Current() (uuid.UUID, bool) {
	if !c.open {
		return uuid.Nil, false
	}
	return c.ids[c.index], true
}

// Neighbors returns the ids Prev and Next would land on.
func (c *Cursor) Neighbors() (prev, next uuid.UUID, ok bool) {
	if !c.open {
		return uuid.Nil, uuid.Nil, false
	}
	n := len(c.ids)
	return c.ids[(c.index-1+n)%n], c.ids[(c.index+1)%n], true
}

// SetList replaces the list. While open the cursor stays on the same photo
// when it is still listed, otherwise it is clamped to the last index; an
// empty list closes it.
func (c *Cursor) SetList(ids []uuid.UUID) {
	var current uuid.UUID
	wasOpen := c.open
	if wasOpen {
		current = c.ids[c.index]
	}

	c.ids = append(c.ids[:0:0], ids...)
	if !wasOpen {
		return
	}
	if len(c.ids) == 0 {
		c.Close()
		return
	}
	for i, v := range c.ids {
		if v == current {
			c.index = i
			return
		}
	}
	if c.index >= len(c.ids) {
		c.index = len(c.ids) - 1
	}
}
