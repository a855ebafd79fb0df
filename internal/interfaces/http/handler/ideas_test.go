package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/contentgen/backend/internal/application/idea"
	ideadomain "github.com/contentgen/backend/internal/domain/idea"
	newsdomain "github.com/contentgen/backend/internal/domain/news"
)

func newIdeaTestRouter(svc IdeaService) *gin.Engine {
	r := newTestEngine()
	h := NewIdeaHandler(svc)
	r.POST("/ideas/generate", h.Generate)
	r.GET("/ideas", h.List)
	r.GET("/ideas/:id", h.Get)
	r.PUT("/ideas/:id/approve", h.Approve)
	r.DELETE("/ideas/:id", h.Delete)
	return r
}

func TestIdeaHandler_Generate(t *testing.T) {
	articleID := uuid.New()

	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"success", `{"article_id":"` + articleID.String() + `","num_ideas":2,"styles":["comedic"]}`, nil, http.StatusOK},
		{"missing article", `{"article_id":"` + articleID.String() + `"}`, newsdomain.ErrArticleNotFound, http.StatusNotFound},
		{"bad model output", `{"article_id":"` + articleID.String() + `"}`, ideadomain.ErrInvalidResponse, http.StatusBadRequest},
		{"unexpected failure", `{"article_id":"` + articleID.String() + `"}`, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockIdeaService)
			if tt.err != nil {
				svc.On("Generate", mock.Anything, mock.Anything).Return(nil, tt.err)
			} else {
				svc.On("Generate", mock.Anything, idea.GenerateIdeasRequest{ArticleID: articleID, NumIdeas: 2, Styles: []string{"comedic"}}).
					Return(&idea.GenerateIdeasResponse{ArticleID: articleID, IdeasGenerated: 2}, nil)
			}

			w := doRequest(t, newIdeaTestRouter(svc), http.MethodPost, "/ideas/generate", tt.body)

			assert.Equal(t, tt.status, w.Code)
			svc.AssertExpectations(t)
		})
	}

	t.Run("rejects an unknown style", func(t *testing.T) {
		svc := new(mockIdeaService)
		w := doRequest(t, newIdeaTestRouter(svc), http.MethodPost, "/ideas/generate",
			`{"article_id":"`+articleID.String()+`","styles":["opera"]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})
}

func TestIdeaHandler_Approve(t *testing.T) {
	id := uuid.New()
	svc := new(mockIdeaService)
	svc.On("Approve", mock.Anything, id, idea.ApproveIdeaRequest{IsApproved: true, ApprovedBy: "editor"}).
		Return(&idea.IdeaResponse{ID: id, IsApproved: true, ApprovedBy: "editor"}, nil)

	w := doRequest(t, newIdeaTestRouter(svc), http.MethodPut, "/ideas/"+id.String()+"/approve",
		`{"is_approved":true,"approved_by":"editor"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, true, data["is_approved"])
	svc.AssertExpectations(t)
}

func TestIdeaHandler_ListGetDelete(t *testing.T) {
	id := uuid.New()
	svc := new(mockIdeaService)
	approved := true
	svc.On("List", mock.Anything, idea.IdeaListFilter{IsApproved: &approved, Style: "meme"}).
		Return(pageOf(idea.IdeaResponse{ID: id}), nil)
	svc.On("Get", mock.Anything, id).Return(nil, ideadomain.ErrIdeaNotFound)
	svc.On("Delete", mock.Anything, id).Return(nil)
	r := newIdeaTestRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/ideas?is_approved=true&style=meme", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/ideas/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, http.MethodDelete, "/ideas/"+id.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Idea deleted successfully", decodeResponse(t, w).Data.(map[string]any)["message"])

	svc.AssertExpectations(t)
}
