package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/notepath-api/internal/config"
	"github.com/notepath-api/internal/mail"
	"github.com/notepath-api/internal/models"
	"github.com/rs/zerolog"
)

// ErrMailQueueFull is returned by Enqueue when the outbox buffer is exhausted
var ErrMailQueueFull = errors.New("mail queue is full")

// sendTimeout bounds a single delivery attempt
const sendTimeout = 30 * time.Second

// mailService is the concrete implementation of MailService.
// Messages wait in a buffered outbox and are delivered by a bounded set of workers.
type mailService struct {
	sender  mail.Sender
	log     zerolog.Logger
	outbox  chan models.MailMessage
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	done    chan struct{}
	running bool
	mu      sync.Mutex
	// Semaphore limiting concurrent SMTP connections
	sem chan struct{}
}

func newMailService(sender mail.Sender, cfg *config.MailConfig, log zerolog.Logger) *mailService {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	queueSize := cfg.QueueSize
	if queueSize < 1 {
		queueSize = 1
	}

	log.Info().Int("workers", workers).Int("queue_size", queueSize).Msg("Initializing mail dispatcher")

	return &mailService{
		sender: sender,
		log:    log.With().Str("service", "mail").Logger(),
		outbox: make(chan models.MailMessage, queueSize),
		sem:    make(chan struct{}, workers),
	}
}

// Enqueue buffers msg for delivery without blocking the caller
func (s *mailService) Enqueue(msg models.MailMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.QueuedAt.IsZero() {
		msg.QueuedAt = time.Now()
	}

	select {
	case s.outbox <- msg:
		s.log.Debug().Str("mail_id", msg.ID).Str("kind", string(msg.Kind)).Msg("Mail queued")
		return nil
	default:
		s.log.Error().Str("kind", string(msg.Kind)).Str("to", msg.To).Msg("Mail queue full, dropping message")
		return ErrMailQueueFull
	}
}

// StartProcessor delivers queued mail until ctx is cancelled or StopProcessor is called
func (s *mailService) StartProcessor(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	// Every wg.Add happens on this goroutine, so StopProcessor waits for it to exit before wg.Wait
	defer close(s.done)

	s.log.Info().Msg("Mail processor started")

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("Mail processor stopping")
			return
		case msg := <-s.outbox:
			// Blocks while every worker is busy
			select {
			case s.sem <- struct{}{}:
			case <-s.ctx.Done():
				s.log.Warn().Str("mail_id", msg.ID).Msg("Mail dropped due to shutdown")
				return
			}

			s.wg.Add(1)
			go func(m models.MailMessage) {
				defer s.wg.Done()
				defer func() { <-s.sem }()
				defer func() {
					if r := recover(); r != nil {
						s.log.Error().
							Interface("panic", r).
							Str("mail_id", m.ID).
							Msg("Mail delivery panicked - recovered")
					}
				}()
				s.deliver(m)
			}(msg)
		}
	}
}

// StopProcessor stops the processor and waits for in-flight deliveries
func (s *mailService) StopProcessor() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	<-s.done
	s.wg.Wait()
	s.running = false
	s.log.Info().Msg("Mail processor stopped")
}

func (s *mailService) deliver(msg models.MailMessage) {
	// In-flight sends finish even when shutdown has begun
	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), sendTimeout)
	defer cancel()

	start := time.Now()
	if err := s.sender.Send(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("mail_id", msg.ID).Str("kind", string(msg.Kind)).Msg("Mail delivery failed")
		return
	}
	s.log.Info().
		Str("mail_id", msg.ID).
		Str("kind", string(msg.Kind)).
		Dur("latency", time.Since(start)).
		Msg("Mail delivered")
}
