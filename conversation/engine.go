// Package conversation owns the ordering flow state machine: given a user's
// current stage and a normalized inbound intent, it mutates the user record,
// invokes checkout when the flow completes, and produces the outbound
// messages for the turn.
package conversation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ajith2401/delivery-app-fresh/checkout"
	"github.com/ajith2401/delivery-app-fresh/gateways"
	"github.com/ajith2401/delivery-app-fresh/intent"
	"github.com/ajith2401/delivery-app-fresh/models"
	"github.com/ajith2401/delivery-app-fresh/stores"
)

const (
	defaultRadiusKm = 5
	listingLimit    = 10
	historyLimit    = 5
)

type Options struct {
	Users    stores.UserStore
	Vendors  stores.VendorStore
	Orders   stores.OrderStore
	Dedup    stores.DedupStore
	Detector intent.Detector
	Messages gateways.MessageGateway
	Checkout *checkout.Service
	Logger   *zap.Logger

	SearchRadiusKm float64
}

type Engine struct {
	users    stores.UserStore
	vendors  stores.VendorStore
	orders   stores.OrderStore
	dedup    stores.DedupStore
	detector intent.Detector
	messages gateways.MessageGateway
	checkout *checkout.Service
	logger   *zap.Logger

	radiusKm float64
	locks    keyedLocks
	now      func() time.Time
}

func NewEngine(opts Options) *Engine {
	radius := opts.SearchRadiusKm
	if radius <= 0 {
		radius = defaultRadiusKm
	}
	return &Engine{
		users:    opts.Users,
		vendors:  opts.Vendors,
		orders:   opts.Orders,
		dedup:    opts.Dedup,
		detector: opts.Detector,
		messages: opts.Messages,
		checkout: opts.Checkout,
		logger:   opts.Logger,
		radiusKm: radius,
		locks:    keyedLocks{m: make(map[string]*sync.Mutex)},
		now:      time.Now,
	}
}

// HandleEvent processes one inbound chat event end to end. Events from the
// same user are serialized; a replayed event id is dropped before any side
// effect. Every accepted event produces at least one outbound message, even
// when a handler fails.
func (e *Engine) HandleEvent(ctx context.Context, ev models.InboundEvent) error {
	if ev.EventID != "" {
		first, err := e.dedup.MarkSeen(ctx, ev.EventID)
		if err != nil {
			e.logger.Warn("dedup check failed, processing anyway",
				zap.String("eventId", ev.EventID),
				zap.Error(err))
		} else if !first {
			e.logger.Info("duplicate inbound event dropped",
				zap.String("eventId", ev.EventID),
				zap.String("from", ev.From))
			return nil
		}
	}

	unlock := e.locks.lock(ev.From)
	defer unlock()

	user, err := e.users.FindOrCreateByPhone(ctx, ev.From)
	if err != nil {
		e.send(ctx, ev.From, models.TextMessage(apologyText(models.LanguageEnglish)))
		return fmt.Errorf("load user %s: %w", ev.From, err)
	}

	res, err := e.detector.Detect(ctx, ev, user.PreferredLanguage)
	if err != nil {
		e.logger.Warn("intent detection failed",
			zap.String("from", ev.From),
			zap.Error(err))
		res = intent.Result{Intent: intent.IntentUnknown}
	}

	replies := e.process(ctx, user, ev, res)

	user.LastInteractionAt = e.now()
	if err := e.users.Save(ctx, user); err != nil {
		e.logger.Error("saving user state failed",
			zap.String("from", ev.From),
			zap.Error(err))
	}

	for _, msg := range replies {
		e.send(ctx, user.PhoneNumber, msg)
	}
	return nil
}

// process runs the stage dispatch under the recovery policy: a panic or error
// inside a handler resets the conversation to main_menu with a localized
// apology rather than leaving the user stuck.
func (e *Engine) process(ctx context.Context, user *models.User, ev models.InboundEvent, res intent.Result) (replies []models.Message) {
	stage := user.ConversationState.Stage

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic in stage handler",
				zap.String("from", user.PhoneNumber),
				zap.String("stage", string(stage)),
				zap.String("intent", string(res.Intent)),
				zap.Any("panic", r))
			replies = e.resetToMenu(user)
		}
	}()

	replies, err := e.dispatch(ctx, user, ev, res)
	if err != nil {
		e.logger.Error("stage handler failed",
			zap.String("from", user.PhoneNumber),
			zap.String("stage", string(stage)),
			zap.String("intent", string(res.Intent)),
			zap.Error(err))
		return e.resetToMenu(user)
	}
	if len(replies) == 0 {
		return e.showMainMenu(user, "")
	}
	return replies
}

func (e *Engine) resetToMenu(user *models.User) []models.Message {
	user.ConversationState = models.ConversationState{Stage: models.StageMainMenu}
	return []models.Message{
		models.TextMessage(apologyText(user.PreferredLanguage)),
		mainMenuMessage(user.PreferredLanguage, ""),
	}
}

func (e *Engine) dispatch(ctx context.Context, user *models.User, ev models.InboundEvent, res intent.Result) ([]models.Message, error) {
	// Feedback buttons arrive long after the flow that sent them, so they
	// are resolved independent of the current stage.
	if res.Intent == intent.IntentFeedback {
		return e.handleFeedback(ctx, user, res.Slots.Score)
	}

	// A user can abandon any flow with a top-level intent; the fallback row
	// is checked before the stage handler once onboarding is done.
	if user.PreferredLanguage != models.LanguageUnset && intent.Global(res.Intent) {
		switch res.Intent {
		case intent.IntentMainMenu:
			return e.showMainMenu(user, ""), nil
		case intent.IntentHelp:
			return e.showHelp(user), nil
		case intent.IntentContactSupport:
			return e.showContactSupport(user), nil
		}
	}

	// Location shares are honored from any stage: the address book is
	// append-only and an in-progress cart is never discarded by them.
	if res.Intent == intent.IntentShareLocation && user.ConversationState.Stage != models.StageLocationSharing {
		return e.handleLocationAnywhere(user, res.Slots), nil
	}

	switch user.ConversationState.Stage {
	case "", models.StageWelcome:
		return e.handleWelcome(user, res), nil
	case models.StageLanguageSelection:
		return e.handleLanguageSelection(user, res), nil
	case models.StageLocationSharing:
		return e.handleLocationSharing(user, res), nil
	case models.StageVendorBrowsing:
		return e.handleVendorBrowsing(ctx, user, res)
	case models.StageVendorSelection:
		return e.handleVendorSelection(ctx, user, res)
	case models.StageMenuBrowsing:
		return e.handleMenuBrowsing(ctx, user, res)
	case models.StageItemSelection:
		return e.handleItemSelection(ctx, user, res)
	case models.StageCartManagement, models.StageViewCart:
		return e.handleCartOptions(ctx, user, res)
	case models.StageFoodSearch:
		return e.handleFoodSearch(ctx, user, ev, res)
	case models.StageAddressConfirmation:
		return e.handleAddressConfirmation(user, res), nil
	case models.StagePaymentSelection:
		return e.handlePaymentSelection(user, res), nil
	case models.StageSpecialInstructions:
		return e.handleSpecialInstructions(ctx, user, ev, res)
	default:
		// main_menu plus the read-only leaves (order status/history, help
		// pages, feedback) all dispatch by intent the same way.
		return e.handleMainMenu(ctx, user, res)
	}
}

func (e *Engine) send(ctx context.Context, to string, msg models.Message) {
	if err := e.messages.Send(ctx, to, msg); err != nil {
		e.logger.Error("outbound message failed",
			zap.String("to", to),
			zap.Error(err))
	}
}

// keyedLocks serializes processing per user so two racing messages from the
// same number cannot both read-modify-write a stale user record.
type keyedLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (k *keyedLocks) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.m[key]
	if !ok {
		l = &sync.Mutex{}
		k.m[key] = l
	}
	k.mu.Unlock()
	l.Lock()
	return l.Unlock
}
