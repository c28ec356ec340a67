package services

import (
	"fmt"
	"os"
	"rwd/internal/structures"
	"sort"
	"sync"

	json "github.com/goccy/go-json"
)

// SubscriberServiceInterface manages the persisted set of notification
// recipients. Membership is a set: subscribing twice is a no-op.
type SubscriberServiceInterface interface {
	Subscribe(id int64) error
	Unsubscribe(id int64) (bool, error)
	List() []int64
}

type SubscriberService struct {
	mu       sync.Mutex
	filePath string
	ids      map[int64]struct{}
}

func NewSubscriberService(conf *structures.Config) (SubscriberServiceInterface, error) {
	ss := &SubscriberService{
		filePath: conf.Notifier.SubscribersFile,
		ids:      make(map[int64]struct{}),
	}
	if err := ss.load(); err != nil {
		return nil, err
	}
	return ss, nil
}

func (ss *SubscriberService) load() error {
	data, err := os.ReadFile(ss.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read subscribers file: %w", err)
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("decode subscribers file: %w", err)
	}
	for _, id := range ids {
		ss.ids[id] = struct{}{}
	}
	return nil
}

// save rewrites the whole membership file. Caller must hold ss.mu.
func (ss *SubscriberService) save() error {
	ids := ss.sorted()
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	tmpFile := ss.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpFile, ss.filePath)
}

func (ss *SubscriberService) sorted() []int64 {
	ids := make([]int64, 0, len(ss.ids))
	for id := range ss.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (ss *SubscriberService) Subscribe(id int64) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if _, ok := ss.ids[id]; ok {
		return nil
	}
	ss.ids[id] = struct{}{}
	if err := ss.save(); err != nil {
		delete(ss.ids, id)
		return err
	}
	return nil
}

func (ss *SubscriberService) Unsubscribe(id int64) (bool, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if _, ok := ss.ids[id]; !ok {
		return false, nil
	}
	delete(ss.ids, id)
	if err := ss.save(); err != nil {
		ss.ids[id] = struct{}{}
		return false, err
	}
	return true, nil
}

func (ss *SubscriberService) List() []int64 {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	return ss.sorted()
}
