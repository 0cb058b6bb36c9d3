package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"anonboard/internal/domain"
	"anonboard/internal/repository"
	"anonboard/internal/service"
)

func (h *Handler) registerContentRoutes(api *gin.RouterGroup) {
	posts := api.Group("/posts", h.requireAuth())
	{
		posts.POST("", h.createPost)
		posts.GET("", h.listPosts)
		posts.GET("/:id", h.getPost)
		posts.POST("/:id/comments", h.createComment)
		posts.GET("/:id/comments", h.listComments)
	}

	api.POST("/votes", h.requireAuth(), h.castVote)

	conversations := api.Group("/conversations", h.requireAuth())
	{
		conversations.POST("", h.startConversation)
		conversations.GET("", h.listConversations)
		conversations.POST("/:id/accept", h.acceptConversation)
		conversations.POST("/:id/messages", h.sendMessage)
		conversations.GET("/:id/messages", h.listMessages)
	}
}

type createPostRequest struct {
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"image_url"`
}

func (h *Handler) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.content.CreatePost(c.Request.Context(), CurrentUser(c).ID, req.Content, req.ImageURL)
	if err != nil {
		h.contentError(c, "create post", err)
		return
	}

	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) listPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	posts, err := h.content.ListPosts(c.Request.Context(), limit, offset)
	if err != nil {
		h.contentError(c, "list posts", err)
		return
	}

	resp := make([]PostResponse, len(posts))
	for i := range posts {
		resp[i] = postToResponse(posts[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	post, err := h.content.GetPost(c.Request.Context(), id)
	if err != nil {
		h.contentError(c, "get post", err)
		return
	}

	c.JSON(http.StatusOK, postToResponse(*post))
}

type createCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID int64  `json:"parent_id"`
}

func (h *Handler) createComment(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.content.CreateComment(c.Request.Context(), CurrentUser(c).ID, postID, req.ParentID, req.Content)
	if err != nil {
		h.contentError(c, "create comment", err)
		return
	}

	c.JSON(http.StatusOK, commentToResponse(*comment))
}

func (h *Handler) listComments(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	comments, err := h.content.ListComments(c.Request.Context(), postID)
	if err != nil {
		h.contentError(c, "list comments", err)
		return
	}

	resp := make([]CommentResponse, len(comments))
	for i := range comments {
		resp[i] = commentToResponse(comments[i])
	}
	c.JSON(http.StatusOK, resp)
}

type castVoteRequest struct {
	PostID    int64 `json:"post_id"`
	CommentID int64 `json:"comment_id"`
	Value     int   `json:"value" binding:"required"`
}

func (h *Handler) castVote(c *gin.Context) {
	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vote, err := h.content.CastVote(c.Request.Context(), CurrentUser(c).ID, req.PostID, req.CommentID, req.Value)
	if err != nil {
		h.contentError(c, "cast vote", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         vote.ID,
		"post_id":    vote.PostID,
		"comment_id": vote.CommentID,
		"value":      vote.Value,
	})
}

type startConversationRequest struct {
	RecipientID int64 `json:"recipient_id" binding:"required"`
}

func (h *Handler) startConversation(c *gin.Context) {
	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := h.messaging.StartConversation(c.Request.Context(), CurrentUser(c).ID, req.RecipientID)
	if err != nil {
		h.contentError(c, "start conversation", err)
		return
	}

	c.JSON(http.StatusOK, conversationToResponse(*conv))
}

func (h *Handler) listConversations(c *gin.Context) {
	convs, err := h.messaging.ListConversations(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		h.contentError(c, "list conversations", err)
		return
	}

	resp := make([]ConversationResponse, len(convs))
	for i := range convs {
		resp[i] = conversationToResponse(convs[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) acceptConversation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.messaging.AcceptConversation(c.Request.Context(), CurrentUser(c).ID, id); err != nil {
		h.contentError(c, "accept conversation", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accepted": id})
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) sendMessage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messaging.SendMessage(c.Request.Context(), CurrentUser(c).ID, id, req.Content)
	if err != nil {
		h.contentError(c, "send message", err)
		return
	}

	c.JSON(http.StatusOK, messageToResponse(*msg))
}

func (h *Handler) listMessages(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	msgs, err := h.messaging.ListMessages(c.Request.Context(), CurrentUser(c).ID, id)
	if err != nil {
		h.contentError(c, "list messages", err)
		return
	}

	resp := make([]MessageResponse, len(msgs))
	for i := range msgs {
		resp[i] = messageToResponse(msgs[i])
	}
	c.JSON(http.StatusOK, resp)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) contentError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": "not a conversation participant"})
	case errors.Is(err, service.ErrConversationPending):
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversation not accepted"})
	default:
		h.serverError(c, op, err)
	}
}

type PostResponse struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	ImageURL  string `json:"image_url,omitempty"`
	CreatedAt string `json:"created_at"`
	OwnerID   int64  `json:"owner_id"`
}

type CommentResponse struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	OwnerID   int64  `json:"owner_id"`
	PostID    int64  `json:"post_id"`
	ParentID  int64  `json:"parent_id,omitempty"`
}

type ConversationResponse struct {
	ID             int64  `json:"id"`
	Participant1ID int64  `json:"participant1_id"`
	Participant2ID int64  `json:"participant2_id"`
	Accepted       bool   `json:"accepted"`
	CreatedAt      string `json:"created_at"`
}

type MessageResponse struct {
	ID             int64  `json:"id"`
	ConversationID int64  `json:"conversation_id"`
	SenderID       int64  `json:"sender_id"`
	Content        string `json:"content"`
	CreatedAt      string `json:"created_at"`
}

func postToResponse(post domain.Post) PostResponse {
	return PostResponse{
		ID:        post.ID,
		Content:   post.Content,
		ImageURL:  post.ImageURL,
		CreatedAt: post.CreatedAt.Format(time.RFC3339),
		OwnerID:   post.OwnerID,
	}
}

func commentToResponse(comment domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
		OwnerID:   comment.OwnerID,
		PostID:    comment.PostID,
		ParentID:  comment.ParentID,
	}
}

func conversationToResponse(conv domain.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:             conv.ID,
		Participant1ID: conv.Participant1ID,
		Participant2ID: conv.Participant2ID,
		Accepted:       conv.Accepted,
		CreatedAt:      conv.CreatedAt.Format(time.RFC3339),
	}
}

func messageToResponse(msg domain.Message) MessageResponse {
	return MessageResponse{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt.Format(time.RFC3339),
	}
}
