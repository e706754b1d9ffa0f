package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"drutaseva/config"
	bookingRepo "drutaseva/database/repository/booking"
	"drutaseva/models"

	"github.com/hibiken/asynq"
)

const TypeBookingProgress = "booking:progress"

// progressPayload carries one status-advance step for a dispatched booking.
type progressPayload struct {
	BookingID string               `json:"bookingId"`
	Current   models.BookingStatus `json:"current"`
}

// Delay between simulated status steps. The mock fleet moves on a fixed
// clock rather than real telemetry.
const progressStep = 90 * time.Second

func queueRedisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// AsynqScheduler enqueues status progression tasks for freshly dispatched
// bookings. It implements booking.ProgressScheduler.
type AsynqScheduler struct {
	client *asynq.Client
}

func NewAsynqScheduler() *AsynqScheduler {
	return &AsynqScheduler{client: asynq.NewClient(queueRedisOpts())}
}

func (s *AsynqScheduler) ScheduleProgress(bookingID string, current models.BookingStatus) error {
	payload, err := json.Marshal(progressPayload{BookingID: bookingID, Current: current})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeBookingProgress, payload)
	_, err = s.client.Enqueue(task, asynq.ProcessIn(progressStep), asynq.MaxRetry(3))
	return err
}

// InitProgressWorker runs the async worker in background. It walks each
// dispatched booking through on-way, arrived, in-progress and completed on a
// fixed schedule, standing in for real fleet telemetry.
func InitProgressWorker(repo bookingRepo.BookingRepository, scheduler *AsynqScheduler) {
	srv := asynq.NewServer(
		queueRedisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingProgress, handleProgressTask(repo, scheduler))

	// Start async worker with retry logic
	go func() {
		log.Println("[ProgressWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ProgressWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ProgressWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleProgressTask(repo bookingRepo.BookingRepository, scheduler *AsynqScheduler) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p progressPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ProgressHandler] Invalid payload: %v", err)
			return err
		}

		current, err := repo.GetByID(p.BookingID)
		if err != nil {
			return err
		}
		if current == nil {
			log.Printf("[ProgressHandler] Booking %s no longer exists, dropping task", p.BookingID)
			return nil
		}

		// The rider may have cancelled, or a duplicate task may arrive after
		// the status already moved on. Both are normal, not failures.
		if !current.Status.Active() || current.Status != p.Current {
			log.Printf("[ProgressHandler] Booking %s is at %s, expected %s, dropping task", p.BookingID, current.Status, p.Current)
			return nil
		}

		next := current.Status.Next()
		if err := repo.UpdateStatus(p.BookingID, next); err != nil {
			return err
		}
		log.Printf("[ProgressHandler] Booking %s advanced %s -> %s", p.BookingID, current.Status, next)

		if next.Active() {
			return scheduler.ScheduleProgress(p.BookingID, next)
		}
		return nil
	}
}
