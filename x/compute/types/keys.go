package types

import (
	"encoding/binary"
)

const (
	// ModuleName defines the module name
	ModuleName = "compute"

	// RouterKey is the message route for compute
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName
)

// StoreKey is the prefix of the compute module state.
var StoreKey = []byte(ModuleName + "/")

var (
	// JobKeyPrefix is the prefix for job records
	JobKeyPrefix = []byte{0x01}
	// NextJobIDKey stores the next job id to assign
	NextJobIDKey = []byte{0x02}
	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x03}
	// EscrowStatsKey stores cumulative escrow accounting
	EscrowStatsKey = []byte{0x04}
	// JobsByStatusPrefix indexes job ids by status
	JobsByStatusPrefix = []byte{0x05}
	// JobsByClientPrefix indexes job ids by client
	JobsByClientPrefix = []byte{0x06}
)

// GetJobKey returns the store key for a job
func GetJobKey(jobID uint64) []byte {
	return append(append([]byte{}, JobKeyPrefix...), GetJobIDBytes(jobID)...)
}

// GetJobsByStatusPrefix returns the index prefix of every job in status
func GetJobsByStatusPrefix(status JobStatus) []byte {
	key := append([]byte{}, JobsByStatusPrefix...)
	return append(key, byte(status))
}

// GetJobsByStatusKey returns the status index key of a job
func GetJobsByStatusKey(status JobStatus, jobID uint64) []byte {
	return append(GetJobsByStatusPrefix(status), GetJobIDBytes(jobID)...)
}

// GetJobsByClientPrefix returns the index prefix of every job of client
func GetJobsByClientPrefix(client []byte) []byte {
	key := append([]byte{}, JobsByClientPrefix...)
	key = append(key, byte(len(client)))
	return append(key, client...)
}

// GetJobsByClientKey returns the client index key of a job
func GetJobsByClientKey(client []byte, jobID uint64) []byte {
	return append(GetJobsByClientPrefix(client), GetJobIDBytes(jobID)...)
}

// GetJobIDBytes returns the big-endian encoding of a job id
func GetJobIDBytes(jobID uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, jobID)
	return bz
}

// GetJobIDFromBytes decodes a big-endian job id
func GetJobIDFromBytes(bz []byte) uint64 {
	return binary.BigEndian.Uint64(bz)
}
