package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openhis/billing/internal/domain/invoice"
	"github.com/openhis/billing/internal/platform/auth"
	"github.com/openhis/billing/internal/platform/db"
)

// EventPublisher emits reconciliation lifecycle events. Delivery failures are
// logged and never fail the operation.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload interface{}) error
}

// Service runs the payment reconciliation state machine. Each operation is a
// single transaction: the payment, its details, and the linked invoices and
// bills move together or not at all.
type Service struct {
	payments  Repository
	details   DetailRepository
	invoices  invoice.Repository
	bills     invoice.BillRepository
	resolver  *Resolver
	validator Validator
	tx        db.TxRunner
	log       zerolog.Logger
	events    EventPublisher
}

func NewService(payments Repository, details DetailRepository, invoices invoice.Repository, bills invoice.BillRepository, resolver *Resolver, validator Validator, tx db.TxRunner, log zerolog.Logger) *Service {
	return &Service{
		payments:  payments,
		details:   details,
		invoices:  invoices,
		bills:     bills,
		resolver:  resolver,
		validator: validator,
		tx:        tx,
		log:       log,
	}
}

// SetEventPublisher attaches an optional event publisher.
func (s *Service) SetEventPublisher(pub EventPublisher) {
	s.events = pub
}

// RefReceived attaches the external payment gateway reference to the payment.
func (s *Service) RefReceived(ctx context.Context, actor auth.Principal, paymentID uuid.UUID, ref string) Result {
	if actor.Anonymous() {
		return authRequired()
	}

	var p *Payment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.payments.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if err := s.validator.ValidateRefReceived(ctx, p, ref); err != nil {
			return err
		}
		p.CodeExt = &ref
		p.UpdatedBy = actor.ID
		return s.payments.Update(ctx, p)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("payment_id", paymentID.String()).Msg("ref received failed")
		return resultErr("ref_received", err)
	}

	s.publish(ctx, "payment.ref_received", p)
	return resultOK(p.Representation())
}

// PaymentReceived reconciles a payment notice: the payment moves to target
// (accepted or rejected) and, on acceptance, every linked invoice and bill
// moves to payed.
func (s *Service) PaymentReceived(ctx context.Context, actor auth.Principal, paymentID uuid.UUID, target Status) Result {
	if actor.Anonymous() {
		return authRequired()
	}
	if target == "" {
		target = StatusAccepted
	}

	var p *Payment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.payments.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if err := s.validator.ValidateReceivePayment(ctx, p); err != nil {
			return err
		}
		return s.updateDependencies(ctx, actor, p, target, invoice.StatusPayed)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("payment_id", paymentID.String()).Msg("payment received failed")
		return resultErr("receive", err)
	}

	s.publish(ctx, "payment.received", p)
	return resultOK(p.Representation())
}

// PaymentRefunded reverses a settled payment: the payment moves to refunded
// and every linked invoice and bill moves to suspended.
func (s *Service) PaymentRefunded(ctx context.Context, actor auth.Principal, paymentID uuid.UUID) Result {
	if actor.Anonymous() {
		return authRequired()
	}

	var p *Payment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.payments.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if err := s.validator.ValidateRefund(ctx, p); err != nil {
			return err
		}
		return s.updateDependencies(ctx, actor, p, StatusRefunded, invoice.StatusSuspended)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("payment_id", paymentID.String()).Msg("payment refund failed")
		return resultErr("refund", err)
	}

	s.publish(ctx, "payment.refunded", p)
	return resultOK(p.Representation())
}

// PaymentCancelled voids a settled payment: the payment moves to cancelled
// and every linked invoice and bill moves to suspended.
func (s *Service) PaymentCancelled(ctx context.Context, actor auth.Principal, paymentID uuid.UUID) Result {
	if actor.Anonymous() {
		return authRequired()
	}

	var p *Payment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.payments.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if err := s.validator.ValidateCancel(ctx, p); err != nil {
			return err
		}
		return s.updateDependencies(ctx, actor, p, StatusCancelled, invoice.StatusSuspended)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("payment_id", paymentID.String()).Msg("payment cancel failed")
		return resultErr("cancel", err)
	}

	s.publish(ctx, "payment.cancelled", p)
	return resultOK(p.Representation())
}

// Create is not part of the reconciliation surface; payments are registered
// through the recorder API.
func (s *Service) Create(ctx context.Context, actor auth.Principal) Result {
	if actor.Anonymous() {
		return authRequired()
	}
	return resultErr("create", ErrNotImplemented)
}

// Update is not part of the reconciliation surface.
func (s *Service) Update(ctx context.Context, actor auth.Principal) Result {
	if actor.Anonymous() {
		return authRequired()
	}
	return resultErr("update", ErrNotImplemented)
}

// updateDependencies moves the payment, its details, and the linked invoices
// and bills to their target statuses. Entities already at the target are left
// untouched so replayed notices stay idempotent.
func (s *Service) updateDependencies(ctx context.Context, actor auth.Principal, p *Payment, target Status, invTarget invoice.Status) error {
	if p.Status != target {
		p.Status = target
		p.UpdatedBy = actor.ID
		if err := s.payments.Update(ctx, p); err != nil {
			return err
		}
	}

	details, err := s.details.ListByPayment(ctx, p.ID)
	if err != nil {
		return err
	}
	for _, d := range details {
		if d.Status == target {
			continue
		}
		d.Status = target
		d.UpdatedBy = actor.ID
		if err := s.details.Update(ctx, d); err != nil {
			return err
		}
	}

	invoices, bills, err := s.resolver.Resolve(ctx, p.ID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, inv := range invoices {
		if inv.Status == invTarget {
			continue
		}
		inv.Status = invTarget
		if invTarget == invoice.StatusPayed {
			inv.DatePayed = &now
		}
		inv.UpdatedBy = actor.ID
		if err := s.invoices.Update(ctx, inv); err != nil {
			return err
		}
	}
	for _, b := range bills {
		if b.Status == invTarget {
			continue
		}
		b.Status = invTarget
		if invTarget == invoice.StatusPayed {
			b.DatePayed = &now
		}
		b.UpdatedBy = actor.ID
		if err := s.bills.Update(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

// publish emits an event after the transaction committed. Failures are logged
// and swallowed.
func (s *Service) publish(ctx context.Context, eventType string, p *Payment) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, p.ID.String(), p.Representation()); err != nil {
		s.log.Error().Err(err).Str("type", eventType).Str("payment_id", p.ID.String()).Msg("event publish failed")
	}
}
