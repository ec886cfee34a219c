package command

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgLog "gitcord/pkg/log"
)

type Handler struct {
	registry *Registry
	l        pkgLog.Logger
}

func NewHandler(registry *Registry, l pkgLog.Logger) *Handler {
	return &Handler{registry: registry, l: l}
}

// HandleInteraction processes inbound interaction events. Command failures
// are reported back to the originator as an ephemeral reply; they never
// crash the process or surface as HTTP errors.
func (h *Handler) HandleInteraction(c *gin.Context) {
	ctx := c.Request.Context()

	var interaction Interaction
	if err := c.ShouldBindJSON(&interaction); err != nil {
		h.l.Errorf(ctx, "Failed to parse interaction: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid interaction payload"})
		return
	}

	switch interaction.Type {
	case InteractionTypePing:
		c.JSON(http.StatusOK, InteractionResponse{Type: ResponseTypePong})

	case InteractionTypeCommand:
		h.handleCommand(c, interaction)

	default:
		h.l.Infof(ctx, "Ignoring interaction type %d", interaction.Type)
		c.JSON(http.StatusOK, InteractionResponse{Type: ResponseTypePong})
	}
}

func (h *Handler) handleCommand(c *gin.Context, interaction Interaction) {
	ctx := c.Request.Context()

	if interaction.Data == nil {
		reply(c, "Malformed command interaction")
		return
	}

	cmd, ok := h.registry.Get(interaction.Data.Name)
	if !ok {
		h.l.Errorf(ctx, "No command matching %s was found", interaction.Data.Name)
		reply(c, "Unknown command: "+interaction.Data.Name)
		return
	}

	opts := make(Options, len(interaction.Data.Options))
	for _, opt := range interaction.Data.Options {
		opts[opt.Name] = opt.Value
	}

	content, err := cmd.Execute(ctx, opts)
	if err != nil {
		h.l.Errorf(ctx, "Command %s failed: %v", cmd.Name, err)
		reply(c, "There was an error while executing this command: "+err.Error())
		return
	}
	reply(c, content)
}

// reply sends an ephemeral channel message response.
func reply(c *gin.Context, content string) {
	c.JSON(http.StatusOK, InteractionResponse{
		Type: ResponseTypeChannelMessage,
		Data: &InteractionResponseData{
			Content: content,
			Flags:   MessageFlagEphemeral,
		},
	})
}
