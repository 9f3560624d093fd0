package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/models"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/normalize"
)

// HandleSuggest runs the suggestion pipeline for one request. It accepts
// either a JSON body {session_id, text} or a multipart form with a
// session_id value and one or more uploaded files.
func (h *Handler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	contentType := r.Header.Get("Content-Type")
	var input models.BibliographicInput
	var sessionID string

	if strings.Contains(contentType, "application/json") {
		var request struct {
			SessionID string `json:"session_id"`
			Text      string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		sessionID = request.SessionID
		input.Text = request.Text
	} else {
		files, text, id, err := h.parseMultipart(r)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		sessionID = id
		input.Text = text
		input.Files = files
	}

	credential, provider, model := h.resolveSession(sessionID)

	pl, err := h.newPipeline(provider, model)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := pl.Suggest(r.Context(), input, credential)
	if err != nil {
		h.writeError(w, err.Error(), errorStatus(err))
		return
	}

	h.writeJSON(w, result)
}

func (h *Handler) parseMultipart(r *http.Request) ([]models.File, string, string, error) {
	if err := r.ParseMultipartForm(normalize.MaxFileBytes); err != nil {
		return nil, "", "", err
	}

	var files []models.File
	if r.MultipartForm != nil {
		for _, headers := range r.MultipartForm.File {
			for _, header := range headers {
				f, err := header.Open()
				if err != nil {
					return nil, "", "", err
				}
				// One byte past the cap so the normalizer can tell "at the
				// cap" from "over it".
				data, err := io.ReadAll(io.LimitReader(f, normalize.MaxFileBytes+1))
				f.Close()
				if err != nil {
					return nil, "", "", err
				}
				files = append(files, models.File{
					Name:      header.Filename,
					MediaType: header.Header.Get("Content-Type"),
					Data:      data,
				})
			}
		}
	}

	return files, r.FormValue("text"), r.FormValue("session_id"), nil
}

// resolveSession returns the credential, provider, and model for the
// request's session, falling back to the server's configured defaults
// when no session is supplied.
func (h *Handler) resolveSession(sessionID string) (credential, provider, model string) {
	if sessionID != "" {
		if session, exists := h.sessionStore.Get(sessionID); exists {
			provider = session.Provider
			if provider == "" {
				provider = h.cfg.Provider
			}
			model = session.Model
			if model == "" {
				model = h.cfg.Model
			}
			credential = session.APIKey
			if credential == "" {
				credential = h.cfg.Credential(provider)
			}
			return credential, provider, model
		}
	}
	return h.cfg.Credential(h.cfg.Provider), h.cfg.Provider, h.cfg.Model
}
