package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/burnerpost/burnerpost/interfaces"
	er "github.com/burnerpost/burnerpost/internal/errors"
	"github.com/burnerpost/burnerpost/internal/tracing"
)

func chatIDParam(c *gin.Context) (int64, bool) {
	chatID, err := strconv.ParseInt(c.Param("chatId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return 0, false
	}
	return chatID, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, er.ErrMailboxNotFound):
		return http.StatusNotFound
	case errors.Is(err, er.ErrAddressTaken):
		return http.StatusConflict
	case errors.Is(err, er.ErrNoDomainAvailable),
		errors.Is(err, er.ErrProviderUnavailable),
		errors.Is(err, er.ErrAuthFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CreateMailbox provisions a fresh disposable mailbox for a tenant. With
// ?activate=true the new mailbox also becomes the active selection.
func CreateMailbox(mailboxService interfaces.MailboxService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "CreateMailbox", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		chatID, ok := chatIDParam(c)
		if !ok {
			return
		}
		tracing.TagChatID(span, chatID)

		mailbox, err := mailboxService.CreateMailbox(ctx, chatID)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		if c.Query("activate") == "true" {
			if err := mailboxService.Activate(ctx, chatID, mailbox.ID); err != nil {
				tracing.TraceErr(span, err)
				c.JSON(statusFor(err), gin.H{"error": err.Error()})
				return
			}
		}

		c.JSON(http.StatusCreated, mailbox)
	}
}

// ListMailboxes returns a tenant's mailboxes, newest first
func ListMailboxes(mailboxService interfaces.MailboxService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "ListMailboxes", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		chatID, ok := chatIDParam(c)
		if !ok {
			return
		}
		tracing.TagChatID(span, chatID)

		mailboxes, err := mailboxService.List(ctx, chatID)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"mailboxes": mailboxes})
	}
}

// ActivateMailbox makes an existing mailbox the tenant's active selection
func ActivateMailbox(mailboxService interfaces.MailboxService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "ActivateMailbox", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		chatID, ok := chatIDParam(c)
		if !ok {
			return
		}
		tracing.TagChatID(span, chatID)

		id := c.Param("id")
		if err := mailboxService.Activate(ctx, chatID, id); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "mailbox activated", "id": id})
	}
}

// GetActiveMailbox returns the tenant's current active mailbox, if any
func GetActiveMailbox(mailboxService interfaces.MailboxService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "GetActiveMailbox", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		chatID, ok := chatIDParam(c)
		if !ok {
			return
		}
		tracing.TagChatID(span, chatID)

		mailbox, err := mailboxService.GetActive(ctx, chatID)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		if mailbox == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active mailbox"})
			return
		}
		c.JSON(http.StatusOK, mailbox)
	}
}

// DeactivateMailbox clears the active selection without deleting the mailbox
func DeactivateMailbox(mailboxService interfaces.MailboxService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "DeactivateMailbox", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		chatID, ok := chatIDParam(c)
		if !ok {
			return
		}
		tracing.TagChatID(span, chatID)

		if err := mailboxService.Deactivate(ctx, chatID); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "active selection cleared"})
	}
}

// DeleteMailbox removes a mailbox; an active selection pointing at it is
// cleared in the same transaction
func DeleteMailbox(mailboxService interfaces.MailboxService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "DeleteMailbox", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		chatID, ok := chatIDParam(c)
		if !ok {
			return
		}
		tracing.TagChatID(span, chatID)

		id := c.Param("id")
		if err := mailboxService.Delete(ctx, chatID, id); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "mailbox removed", "id": id})
	}
}
