package common

import (
	"errors"
	"fmt"

	"prizepool/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const systemErrorMessage = "Something went wrong. Please try again later."

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Ephemeral   bool   // Whether the error message should be ephemeral
	Err         error  // Underlying error
	Context     any    // Additional context for logging
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (validation, insufficient funds, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewSystemError creates an error for system issues (database, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: systemErrorMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// userMessages maps domain errors to what the user is told. Order matters:
// ErrAlreadyBurned also matches ErrNotFound.
var userMessages = []struct {
	err     error
	message string
}{
	{entities.ErrAlreadyBurned, "That ticket has already been refunded."},
	{entities.ErrNotFound, "That ticket does not exist."},
	{entities.ErrNotOwner, "You are not allowed to do that."},
	{entities.ErrInvalidAmount, "That amount is not valid."},
	{entities.ErrInsufficientFunds, "There are not enough funds for that."},
	{entities.ErrNoEligibleTickets, "No tickets are eligible for this draw yet."},
	{entities.ErrNotWinningTicket, "That ticket did not win the last draw."},
	{entities.ErrNoFunds, "There is no prize to collect right now."},
	{entities.ErrUnknownStrategy, "No strategy is registered under that name."},
	{entities.ErrNotInitialized, "The lottery is not running yet."},
}

// FromDomainError classifies err into a user error when it is a known domain
// failure, and into a system error otherwise
func FromDomainError(err error, logMessage string) *BotError {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			botErr := NewUserError(m.message, logMessage)
			botErr.Err = err
			return botErr
		}
	}
	return NewSystemError(err, logMessage)
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError processes a BotError and responds appropriately
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	var botErr *BotError
	if !errors.As(err, &botErr) {
		botErr = NewSystemError(err, "Unexpected error in bot command")
	}

	entry := log.WithFields(log.Fields{
		"user_id":      UserID(i),
		"command":      i.ApplicationCommandData().Name,
		"error":        botErr.Error(),
		"user_message": botErr.UserMessage,
		"context":      botErr.Context,
	})
	if botErr.UserMessage == systemErrorMessage {
		entry.Error(botErr.LogMessage)
	} else {
		entry.Info(botErr.LogMessage)
	}

	if deferred {
		FollowUpWithError(s, i, botErr.UserMessage)
	} else {
		RespondWithError(s, i, botErr.UserMessage)
	}
}
