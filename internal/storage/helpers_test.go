package storage

import (
	"testing"

	bolt "go.etcd.io/bbolt"
)

func bucketLen(t *testing.T, s *boltStore) int {
	t.Helper()
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(itemBucket)).ForEach(func(_, _ []byte) error {
			n++
			return nil
		})
	})
	if err != nil {
		t.Fatalf("count bucket: %v", err)
	}
	return n
}
