package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	deletionRequestKeyPrefix = "deletion_request:"
	scanBatchSize            = 100
)

type deletionRequestRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDeletionRequestRepository stores requests in Redis. A ttl of zero
// keeps them until they are reviewed.
func NewDeletionRequestRepository(client *redis.Client, ttl time.Duration) domainRepo.DeletionRequestRepository {
	return &deletionRequestRepository{client: client, ttl: ttl}
}

func deletionRequestKey(appointmentID uuid.UUID) string {
	return deletionRequestKeyPrefix + appointmentID.String()
}

func (r *deletionRequestRepository) Set(ctx context.Context, request *entity.DeletionRequest) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal deletion request: %w", err)
	}
	return r.client.Set(ctx, deletionRequestKey(request.AppointmentID), payload, r.ttl).Err()
}

func (r *deletionRequestRepository) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*entity.DeletionRequest, error) {
	data, err := r.client.Get(ctx, deletionRequestKey(appointmentID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var request entity.DeletionRequest
	if err := json.Unmarshal(data, &request); err != nil {
		return nil, fmt.Errorf("unmarshal deletion request: %w", err)
	}
	return &request, nil
}

// FindAll scans the ledger, oldest request first. Keys that expire
// between SCAN and GET are skipped.
func (r *deletionRequestRepository) FindAll(ctx context.Context) ([]entity.DeletionRequest, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, deletionRequestKeyPrefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	requests := make([]entity.DeletionRequest, 0, len(keys))
	if len(keys) == 0 {
		return requests, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var request entity.DeletionRequest
		if err := json.Unmarshal([]byte(raw), &request); err != nil {
			return nil, fmt.Errorf("unmarshal deletion request: %w", err)
		}
		requests = append(requests, request)
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].RequestedAt.Before(requests[j].RequestedAt)
	})
	return requests, nil
}

func (r *deletionRequestRepository) Delete(ctx context.Context, appointmentID uuid.UUID) (int64, error) {
	return r.client.Del(ctx, deletionRequestKey(appointmentID)).Result()
}
