package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"manuscript-review-api/services"
)

// CreateDraft creates a new manuscript draft owned by the caller.
func CreateDraft(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	type CreateDraftRequest struct {
		Title       string `json:"title"`
		Abstract    string `json:"abstract"`
		Keywords    string `json:"keywords"`
		TrackID     int    `json:"track_id" binding:"required"`
		YearID      int    `json:"year_id" binding:"required"`
		CoAuthorIDs []int  `json:"co_author_ids"`
	}

	var req CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	manuscript, err := manuscriptService.CreateDraft(identity, services.CreateDraftRequest{
		Title:       req.Title,
		Abstract:    req.Abstract,
		Keywords:    req.Keywords,
		TrackID:     req.TrackID,
		YearID:      req.YearID,
		CoAuthorIDs: req.CoAuthorIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Draft created successfully",
		"manuscript": manuscript,
	})
}

// UpdateDraft edits an editable manuscript's fields.
func UpdateDraft(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	type UpdateDraftRequest struct {
		Title    *string `json:"title"`
		Abstract *string `json:"abstract"`
		Keywords *string `json:"keywords"`
		TrackID  *int    `json:"track_id"`
	}

	var req UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	manuscript, err := manuscriptService.UpdateDraft(identity, c.Param("id"), services.UpdateDraftRequest{
		Title:    req.Title,
		Abstract: req.Abstract,
		Keywords: req.Keywords,
		TrackID:  req.TrackID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"manuscript": manuscript,
	})
}

// DeleteDraft withdraws an unsubmitted draft.
func DeleteDraft(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	if err := manuscriptService.DeleteDraft(identity, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Draft deleted",
	})
}

// SubmitManuscript moves a complete draft into the editorial pipeline.
func SubmitManuscript(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	manuscript, err := manuscriptService.SubmitManuscript(identity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Manuscript submitted successfully",
		"manuscript": manuscript,
	})
}

// AttachManuscriptFile records an uploaded file against the manuscript.
func AttachManuscriptFile(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	type AttachFileRequest struct {
		FileKind     string `json:"file_kind" binding:"required"`
		OriginalName string `json:"original_name" binding:"required"`
		StoredPath   string `json:"stored_path" binding:"required"`
		FileSize     int64  `json:"file_size"`
		MimeType     string `json:"mime_type"`
	}

	var req AttachFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := manuscriptService.AttachFile(identity, c.Param("id"), services.AttachFileRequest{
		FileKind:     req.FileKind,
		OriginalName: req.OriginalName,
		StoredPath:   req.StoredPath,
		FileSize:     req.FileSize,
		MimeType:     req.MimeType,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"file":    file,
	})
}

// GetManuscript returns the permission-filtered view of one manuscript.
func GetManuscript(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	view, err := manuscriptService.GetManuscriptView(identity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"view":    view,
	})
}

// GetManuscripts lists manuscripts visible to the caller, with optional
// status/track/year filters.
func GetManuscripts(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	filter := services.ManuscriptFilter{
		Status: c.Query("status"),
	}
	if trackID, err := strconv.Atoi(c.Query("track_id")); err == nil {
		filter.TrackID = trackID
	}
	if yearID, err := strconv.Atoi(c.Query("year_id")); err == nil {
		filter.YearID = yearID
	}

	manuscripts, err := manuscriptService.ListManuscripts(identity, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"manuscripts": manuscripts,
		"total":       len(manuscripts),
	})
}
