package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spockey4711/trainingbuilder/internal/domain"
	"github.com/spockey4711/trainingbuilder/internal/middleware"
	"github.com/spockey4711/trainingbuilder/internal/service"
)

type NoteHandler struct {
	noteService *service.NoteService
}

func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// SearchNotes handles GET /v1/me/notes?q=&sport=&tag=
func (h *NoteHandler) SearchNotes(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	hits, err := h.noteService.Search(c.UserContext(), userID, domain.NoteSearch{
		Query: c.Query("q"),
		Sport: c.Query("sport"),
		Tag:   c.Query("tag"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, hits)
}

// ListTags handles GET /v1/me/notes/tags
func (h *NoteHandler) ListTags(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	tags, err := h.noteService.Tags(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	if tags == nil {
		tags = []string{}
	}
	return respondData(c, fiber.StatusOK, tags)
}
