package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	apierrors "github.com/voicecart/voicecart/server/internal/errors"
	"github.com/voicecart/voicecart/store"
)

// seedGreeting opens every fresh transcript.
const seedGreeting = "Hi there! I'm your shopping assistant. How can I help you today?"

type turnRequest struct {
	SessionUID string `json:"sessionUid"`
	Text       string `json:"text"`
}

type messageResponse struct {
	UID        string  `json:"uid"`
	Role       string  `json:"role"`
	Content    string  `json:"content"`
	ProductIDs []int32 `json:"productIds,omitempty"`
	Action     string  `json:"action,omitempty"`
	CreatedTs  int64   `json:"createdTs"`
}

type pageRequest struct {
	Page string `json:"page"`
}

type speechRequest struct {
	Text string `json:"text"`
}

func (s *APIV1Service) registerAssistantRoutes(g *echo.Group) {
	g.POST("/assistant/turns", s.processTurn)
	g.GET("/assistant/sessions/:session/messages", s.listMessages)
	g.GET("/assistant/sessions/:session/state", s.sessionState)
	g.PATCH("/assistant/sessions/:session/page", s.setPage)
	g.DELETE("/assistant/sessions/:session", s.deleteSession)
	g.POST("/assistant/speech", s.synthesizeSpeech)
}

// processTurn runs one conversation turn for the session.
func (s *APIV1Service) processTurn(c echo.Context) error {
	var req turnRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, apierrors.InvalidArgument("malformed request body"))
	}
	if req.SessionUID == "" {
		return apiError(c, apierrors.InvalidArgument("sessionUid is required"))
	}

	msg, err := s.session(req.SessionUID).ProcessTurn(c.Request().Context(), req.Text)
	if err != nil {
		return apiError(c, apierrors.FromAssistant(err))
	}
	return c.JSON(http.StatusOK, toMessageResponse(msg))
}

// listMessages returns the session transcript, seeding the opening
// greeting on first read.
func (s *APIV1Service) listMessages(c echo.Context) error {
	sessionUID := c.Param("session")
	ctx := c.Request().Context()

	messages, err := s.Store.ListAssistantMessages(ctx, &store.FindAssistantMessage{SessionUID: &sessionUID})
	if err != nil {
		return apiError(c, apierrors.Internal("list messages", err))
	}
	if len(messages) == 0 {
		greeting, err := s.Store.CreateAssistantMessage(ctx, &store.AssistantMessage{
			UID:        shortuuid.New(),
			SessionUID: sessionUID,
			Role:       store.MessageRoleAssistant,
			Content:    seedGreeting,
		})
		if err != nil {
			return apiError(c, apierrors.Internal("seed greeting", err))
		}
		messages = []*store.AssistantMessage{greeting}
	}

	resp := make([]*messageResponse, 0, len(messages))
	for _, msg := range messages {
		resp = append(resp, toMessageResponse(msg))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) sessionState(c echo.Context) error {
	sess := s.session(c.Param("session"))
	return c.JSON(http.StatusOK, map[string]string{
		"state":       string(sess.State()),
		"currentPage": sess.Conversation().CurrentPage(),
	})
}

// setPage tells the session which page the user is viewing, keeping page
// queries accurate when the user navigates on their own.
func (s *APIV1Service) setPage(c echo.Context) error {
	var req pageRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, apierrors.InvalidArgument("malformed request body"))
	}
	if req.Page == "" {
		return apiError(c, apierrors.InvalidArgument("page is required"))
	}
	s.session(c.Param("session")).Conversation().SetCurrentPage(req.Page)
	return c.NoContent(http.StatusNoContent)
}

func (s *APIV1Service) deleteSession(c echo.Context) error {
	s.closeSession(c.Param("session"))
	return c.NoContent(http.StatusNoContent)
}

// synthesizeSpeech returns MP3 audio for the given reply text.
func (s *APIV1Service) synthesizeSpeech(c echo.Context) error {
	if s.synthesizer == nil {
		return apiError(c, apierrors.NotFound("speech synthesis is disabled"))
	}
	var req speechRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, apierrors.InvalidArgument("malformed request body"))
	}
	if req.Text == "" {
		return apiError(c, apierrors.InvalidArgument("text is required"))
	}
	clip, err := s.synthesizer.Synthesize(c.Request().Context(), req.Text)
	if err != nil {
		return apiError(c, apierrors.Internal("synthesize speech", err))
	}
	return c.Blob(http.StatusOK, "audio/mpeg", clip)
}

func toMessageResponse(msg *store.AssistantMessage) *messageResponse {
	return &messageResponse{
		UID:        msg.UID,
		Role:       string(msg.Role),
		Content:    msg.Content,
		ProductIDs: msg.ProductIDs,
		Action:     msg.Action,
		CreatedTs:  msg.CreatedTs,
	}
}

// apiError renders a structured error response.
func apiError(c echo.Context, err *apierrors.APIError) error {
	return c.JSON(err.HTTPStatus(), map[string]string{
		"code":    string(err.Code),
		"message": err.Message,
	})
}
