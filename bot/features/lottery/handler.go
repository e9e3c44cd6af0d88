package lottery

import (
	"context"
	"fmt"

	"prizepool/bot/common"
	"prizepool/domain/entities"
	"prizepool/domain/utils"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type options = map[string]*discordgo.ApplicationCommandInteractionDataOption

func caller(i *discordgo.InteractionCreate) entities.AccountID {
	return entities.AccountID(common.UserID(i))
}

func ticketOption(opts options) (int64, error) {
	opt, ok := opts["ticket"]
	if !ok {
		return 0, common.NewUserError("Please give a ticket number.", "missing ticket option")
	}
	return opt.IntValue(), nil
}

func userOption(opts options) (entities.AccountID, error) {
	opt, ok := opts["user"]
	if !ok {
		return "", common.NewUserError("Please pick a user.", "missing user option")
	}
	return entities.AccountID(opt.UserValue(nil).ID), nil
}

func (f *Feature) amountOption(opts options) (uint64, error) {
	opt, ok := opts["amount"]
	if !ok {
		return 0, common.NewUserError("Please give an amount.", "missing amount option")
	}
	amount, err := utils.ParseAmount(opt.StringValue(), f.settings.Decimals)
	if err != nil || amount == 0 {
		return 0, common.NewUserError("Please enter a valid positive amount.", fmt.Sprintf("invalid amount %q", opt.StringValue()))
	}
	return amount, nil
}

func (f *Feature) handleBuy(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	state, err := f.handler.State(ctx)
	if err != nil {
		return common.FromDomainError(err, "failed to load lottery state")
	}

	ticket, err := f.handler.Purchase(ctx, caller(i), state.TicketPrice)
	if err != nil {
		return common.FromDomainError(err, "failed to purchase ticket")
	}

	account, err := f.handler.Account(ctx, caller(i))
	if err != nil {
		return common.NewSystemError(err, "failed to load account after purchase")
	}

	log.WithFields(log.Fields{
		"user_id":   common.UserID(i),
		"ticket_id": ticket.ID,
	}).Info("Lottery ticket purchased via Discord")

	return common.RespondWithEmbed(s, i, CreatePurchaseEmbed(ticket, state, account.Balance, f.settings.Decimals), true)
}

func (f *Feature) handleRefund(s *discordgo.Session, i *discordgo.InteractionCreate, opts options) error {
	ticketID, err := ticketOption(opts)
	if err != nil {
		return err
	}

	ticket, err := f.handler.Refund(context.Background(), caller(i), ticketID)
	if err != nil {
		return common.FromDomainError(err, "failed to refund ticket")
	}

	return common.RespondWithSuccess(s, i, fmt.Sprintf("Ticket #%d refunded, %s returned to your balance.",
		ticket.ID, common.FormatAmount(ticket.Principal, f.settings.Decimals)), true)
}

func (f *Feature) handleTickets(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	state, err := f.handler.State(ctx)
	if err != nil {
		return common.FromDomainError(err, "failed to load lottery state")
	}
	tickets, err := f.handler.TicketsOf(ctx, caller(i))
	if err != nil {
		return common.NewSystemError(err, "failed to list tickets")
	}

	return common.RespondWithEmbed(s, i, CreateTicketsEmbed(tickets, state), true)
}

func (f *Feature) handlePrize(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	state, err := f.handler.State(ctx)
	if err != nil {
		return common.FromDomainError(err, "failed to load lottery state")
	}
	prize, err := f.handler.CurrentPrize(ctx)
	if err != nil {
		return common.FromDomainError(err, "failed to compute prize")
	}
	ledger, err := f.handler.Ledger(ctx)
	if err != nil {
		return common.FromDomainError(err, "failed to load treasury ledger")
	}

	return common.RespondWithEmbed(s, i, CreatePrizeEmbed(state, ledger, prize, f.settings.Decimals), false)
}

func (f *Feature) handleClaim(s *discordgo.Session, i *discordgo.InteractionCreate, opts options) error {
	ticketID, err := ticketOption(opts)
	if err != nil {
		return err
	}

	paid, err := f.handler.WithdrawWinnings(context.Background(), caller(i), ticketID)
	if err != nil {
		return common.FromDomainError(err, "failed to withdraw winnings")
	}

	return common.RespondWithSuccess(s, i, fmt.Sprintf("%s collected %s with ticket #%d!",
		common.Mention(common.UserID(i)), common.FormatAmount(paid, f.settings.Decimals), ticketID), false)
}

func (f *Feature) handleEligible(s *discordgo.Session, i *discordgo.InteractionCreate, opts options) error {
	ticketID, err := ticketOption(opts)
	if err != nil {
		return err
	}

	eligible, err := f.handler.IsEligible(context.Background(), ticketID)
	if err != nil {
		return common.FromDomainError(err, "failed to check eligibility")
	}

	message := fmt.Sprintf("Ticket #%d takes part in the next draw.", ticketID)
	if !eligible {
		message = fmt.Sprintf("Ticket #%d is not in the next draw.", ticketID)
	}
	return common.RespondWithSuccess(s, i, message, true)
}

// handleDraw defers the response and reports the result or error as a follow-up
func (f *Feature) handleDraw(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if err := common.DeferResponse(s, i, false); err != nil {
		return common.NewSystemError(err, "failed to defer draw response")
	}

	result, err := f.handler.Draw(context.Background(), caller(i))
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "failed to run draw"), true)
		return nil
	}

	if _, err := common.FollowUpWithEmbed(s, i, CreateDrawResultEmbed(result, f.settings.Decimals), false); err != nil {
		log.WithError(err).Error("Failed to send draw result follow-up")
	}
	return nil
}

func (f *Feature) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	draws, err := f.handler.RecentDraws(context.Background(), common.HistoryLimit)
	if err != nil {
		return common.FromDomainError(err, "failed to load draw history")
	}

	return common.RespondWithEmbed(s, i, CreateHistoryEmbed(draws, f.settings.Decimals), true)
}

func (f *Feature) handleDeposit(s *discordgo.Session, i *discordgo.InteractionCreate, opts options) error {
	amount, err := f.amountOption(opts)
	if err != nil {
		return err
	}

	if err := f.handler.TreasuryDeposit(context.Background(), caller(i), amount); err != nil {
		return common.FromDomainError(err, "failed to deposit into treasury")
	}

	return common.RespondWithSuccess(s, i, fmt.Sprintf("%s added %s to the prize pool.",
		common.Mention(common.UserID(i)), common.FormatAmount(amount, f.settings.Decimals)), false)
}

func (f *Feature) handleAdminWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate, opts options) error {
	amount, err := f.amountOption(opts)
	if err != nil {
		return err
	}
	recipient, err := userOption(opts)
	if err != nil {
		return err
	}

	if err := f.handler.TreasuryWithdraw(context.Background(), f.settings.Owner, recipient, amount); err != nil {
		return common.FromDomainError(err, "failed to withdraw from treasury")
	}

	log.WithFields(log.Fields{
		"admin_id":  common.UserID(i),
		"recipient": recipient,
		"amount":    amount,
	}).Warn("Admin withdrew from treasury")

	return common.RespondWithSuccess(s, i, fmt.Sprintf("Sent %s from the treasury to %s.",
		common.FormatAmount(amount, f.settings.Decimals), common.Mention(string(recipient))), true)
}

func (f *Feature) handleAdminStrategy(s *discordgo.Session, i *discordgo.InteractionCreate, opts options) error {
	name := ""
	if opt, ok := opts["name"]; ok {
		name = opt.StringValue()
	}

	if err := f.handler.SetStrategy(context.Background(), f.settings.Owner, name); err != nil {
		return common.FromDomainError(err, "failed to set strategy")
	}

	return common.RespondWithSuccess(s, i, fmt.Sprintf("Treasury strategy set to %q.", name), true)
}

func (f *Feature) handleAdminGrant(s *discordgo.Session, i *discordgo.InteractionCreate, opts options) error {
	amount, err := f.amountOption(opts)
	if err != nil {
		return err
	}
	recipient, err := userOption(opts)
	if err != nil {
		return err
	}

	account, err := f.handler.Grant(context.Background(), f.settings.Owner, recipient, amount)
	if err != nil {
		return common.FromDomainError(err, "failed to grant funds")
	}

	return common.RespondWithSuccess(s, i, fmt.Sprintf("Granted %s to %s. New balance: %s.",
		common.FormatAmount(amount, f.settings.Decimals),
		common.Mention(string(recipient)),
		common.FormatAmount(account.Balance, f.settings.Decimals)), true)
}
