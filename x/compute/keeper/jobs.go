package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"

	"github.com/paw-chain/zkmarket/x/compute/types"
)

// getNextJobID returns the next job id and advances the counter.
func (k *Keeper) getNextJobID(ctx context.Context) uint64 {
	store := k.getStore(ctx)
	nextID := uint64(1)
	if bz := store.Get(types.NextJobIDKey); bz != nil {
		nextID = binary.BigEndian.Uint64(bz)
	}
	store.Set(types.NextJobIDKey, types.GetJobIDBytes(nextID+1))
	return nextID
}

// PeekNextJobID returns the id the next job will receive.
func (k *Keeper) PeekNextJobID(ctx context.Context) uint64 {
	if bz := k.getStore(ctx).Get(types.NextJobIDKey); bz != nil {
		return binary.BigEndian.Uint64(bz)
	}
	return 1
}

func (k *Keeper) setNextJobID(ctx context.Context, id uint64) {
	k.getStore(ctx).Set(types.NextJobIDKey, types.GetJobIDBytes(id))
}

// GetJob returns a job by id.
func (k *Keeper) GetJob(ctx context.Context, jobID uint64) (*types.Job, error) {
	bz := k.getStore(ctx).Get(types.GetJobKey(jobID))
	if bz == nil {
		return nil, types.ErrJobNotFound.Wrapf("job %d", jobID)
	}
	var job types.Job
	if err := json.Unmarshal(bz, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job %d: %w", jobID, err)
	}
	return &job, nil
}

// setJob stores a job and moves its status index entry when the status
// changed from previous.
func (k *Keeper) setJob(ctx context.Context, job types.Job, previous types.JobStatus) error {
	bz, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job %d: %w", job.ID, err)
	}

	store := k.getStore(ctx)
	store.Set(types.GetJobKey(job.ID), bz)
	if previous != job.Status {
		if previous != types.JobStatusUnspecified {
			store.Delete(types.GetJobsByStatusKey(previous, job.ID))
		}
		store.Set(types.GetJobsByStatusKey(job.Status, job.ID), []byte{})
	}
	if previous == types.JobStatusUnspecified {
		store.Set(types.GetJobsByClientKey(job.ClientAddress(), job.ID), []byte{})
	}
	return nil
}

// IterateJobs calls cb for every job in id order until it returns true.
func (k *Keeper) IterateJobs(ctx context.Context, cb func(job types.Job) (stop bool)) error {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.JobKeyPrefix)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		var job types.Job
		if err := json.Unmarshal(iter.Value(), &job); err != nil {
			return fmt.Errorf("failed to unmarshal job at %x: %w", iter.Key(), err)
		}
		if cb(job) {
			return nil
		}
	}
	return nil
}
