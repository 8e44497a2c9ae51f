package zooredis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"

	zoo "github.com/rezairanshahi021/zoo-challenge"
)

// Documents live in one hash per record: 'data' holds the JSON body,
// 'version' the optimistic concurrency counter. All conditioned writes go
// through Lua so the version check and the write are one atomic step on
// the Redis side; this is the compare-and-swap primitive the placement
// engine relies on.
//
// Script replies: -1 record missing, -2 version conflict, -3 id taken,
// -4 title taken, otherwise the new version.
var (
	createDocScript = rueidis.NewLuaScript(`
local key = KEYS[1]
if redis.call('EXISTS', key) == 1 then
	return -3
end
redis.call('HSET', key, 'data', ARGV[1], 'version', 1)
return 1
`)

	putDocScript = rueidis.NewLuaScript(`
local key = KEYS[1]
local expected = tonumber(ARGV[2])
local current = redis.call('HGET', key, 'version')
if not current then
	return -1
end
if tonumber(current) ~= expected then
	return -2
end
redis.call('HSET', key, 'data', ARGV[1], 'version', expected + 1)
return expected + 1
`)

	createRoomScript = rueidis.NewLuaScript(`
local key = KEYS[1]
local titles_key = KEYS[2]
local title = ARGV[2]
if redis.call('HEXISTS', titles_key, title) == 1 then
	return -4
end
if redis.call('EXISTS', key) == 1 then
	return -3
end
redis.call('HSET', key, 'data', ARGV[1], 'version', 1, 'title', title)
redis.call('HSET', titles_key, title, ARGV[3])
return 1
`)

	putRoomScript = rueidis.NewLuaScript(`
local key = KEYS[1]
local titles_key = KEYS[2]
local expected = tonumber(ARGV[2])
local current = redis.call('HGET', key, 'version')
if not current then
	return -1
end
if tonumber(current) ~= expected then
	return -2
end
local old_title = redis.call('HGET', key, 'title')
local new_title = ARGV[3]
if old_title ~= new_title then
	if redis.call('HEXISTS', titles_key, new_title) == 1 then
		return -4
	end
	redis.call('HDEL', titles_key, old_title)
	redis.call('HSET', titles_key, new_title, ARGV[4])
end
redis.call('HSET', key, 'data', ARGV[1], 'version', expected + 1, 'title', new_title)
return expected + 1
`)

	deleteRoomScript = rueidis.NewLuaScript(`
local key = KEYS[1]
local titles_key = KEYS[2]
local title = redis.call('HGET', key, 'title')
if not title then
	return -1
end
redis.call('HDEL', titles_key, title)
redis.call('DEL', key)
return 1
`)
)

type redisStore struct {
	keyPrefix string
	client    rueidis.Client
}

// NewStore returns a zoo.Store backed by Redis. All keys are namespaced
// under keyPrefix.
func NewStore(keyPrefix string, client rueidis.Client) zoo.Store {
	return &redisStore{keyPrefix: keyPrefix, client: client}
}

func (s *redisStore) GetAnimal(ctx context.Context, id string) (*zoo.Animal, error) {
	data, version, err := s.getDoc(ctx, redisKeyAnimal(s.keyPrefix, id))
	if err != nil {
		if errors.Is(err, errDocMissing) {
			return nil, zoo.NewError(zoo.CodeAnimalNotFound, fmt.Errorf("animal %q not found", id))
		}
		return nil, err
	}
	return decodeAnimal(data, version)
}

func (s *redisStore) CreateAnimal(ctx context.Context, animal *zoo.Animal) (*zoo.Animal, error) {
	created := *animal
	created.ID = uuid.NewString()
	created.Created = time.Now().UTC()
	created.Updated = created.Created
	created.Version = 1

	data, err := encodeAnimal(&created)
	if err != nil {
		return nil, err
	}
	key := redisKeyAnimal(s.keyPrefix, created.ID)
	reply, err := createDocScript.Exec(ctx, s.client, []string{key}, []string{data}).AsInt64()
	if err != nil {
		return nil, fmt.Errorf("failed to exec create animal script: %w", err)
	}
	if reply == -3 {
		return nil, fmt.Errorf("animal id %q already taken", created.ID)
	}
	return &created, nil
}

func (s *redisStore) PutAnimal(ctx context.Context, animal *zoo.Animal) (*zoo.Animal, error) {
	updated := *animal
	updated.Updated = time.Now().UTC()

	data, err := encodeAnimal(&updated)
	if err != nil {
		return nil, err
	}
	key := redisKeyAnimal(s.keyPrefix, updated.ID)
	reply, err := putDocScript.Exec(ctx, s.client, []string{key}, []string{data, fmt.Sprint(updated.Version)}).AsInt64()
	if err != nil {
		return nil, fmt.Errorf("failed to exec put animal script: %w", err)
	}
	switch reply {
	case -1:
		return nil, zoo.NewError(zoo.CodeAnimalNotFound, fmt.Errorf("animal %q not found", updated.ID))
	case -2:
		return nil, zoo.NewError(zoo.CodeConcurrency, fmt.Errorf("version conflict writing animal %q at version %d", updated.ID, updated.Version))
	}
	updated.Version = reply
	return &updated, nil
}

func (s *redisStore) DeleteAnimal(ctx context.Context, id string) error {
	key := redisKeyAnimal(s.keyPrefix, id)
	cmd := s.client.B().Del().Key(key).Build()
	deleted, err := s.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return fmt.Errorf("failed to delete animal %q: %w", id, err)
	}
	if deleted == 0 {
		return zoo.NewError(zoo.CodeAnimalNotFound, fmt.Errorf("animal %q not found", id))
	}
	return nil
}

func (s *redisStore) ListAnimalsByRoom(ctx context.Context, roomID string, page zoo.Page) (*zoo.AnimalPage, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	animals := make([]*zoo.Animal, 0, len(room.AnimalIDs))
	for _, id := range room.AnimalIDs {
		animal, err := s.GetAnimal(ctx, id)
		if err != nil {
			// a concurrent removal may have raced the room read
			if zoo.ErrorHasCode(err, zoo.CodeAnimalNotFound) {
				continue
			}
			return nil, err
		}
		animals = append(animals, animal)
	}
	sortAnimals(animals, page.Sort, page.Desc)

	total := len(animals)
	size := page.Size
	if size <= 0 {
		size = 20
	}
	start := page.Number * size
	if start > total {
		start = total
	}
	end := min(start+size, total)
	return &zoo.AnimalPage{
		Animals:    animals[start:end],
		Number:     page.Number,
		Size:       size,
		TotalCount: total,
		TotalPages: (total + size - 1) / size,
	}, nil
}

func sortAnimals(animals []*zoo.Animal, field string, desc bool) {
	sort.SliceStable(animals, func(i, j int) bool {
		a, b := animals[i], animals[j]
		if desc {
			a, b = b, a
		}
		switch field {
		case "volume":
			return a.Volume < b.Volume
		case "located":
			return a.Located.Before(b.Located)
		case "id":
			return a.ID < b.ID
		default:
			return a.Title < b.Title
		}
	})
}

func (s *redisStore) GetRoom(ctx context.Context, id string) (*zoo.Room, error) {
	data, version, err := s.getDoc(ctx, redisKeyRoom(s.keyPrefix, id))
	if err != nil {
		if errors.Is(err, errDocMissing) {
			return nil, zoo.NewError(zoo.CodeRoomNotFound, fmt.Errorf("room %q not found", id))
		}
		return nil, err
	}
	return decodeRoom(data, version)
}

func (s *redisStore) CreateRoom(ctx context.Context, room *zoo.Room) (*zoo.Room, error) {
	created := *room
	created.ID = uuid.NewString()
	created.Created = time.Now().UTC()
	created.Updated = created.Created
	created.Version = 1

	data, err := encodeRoom(&created)
	if err != nil {
		return nil, err
	}
	key := redisKeyRoom(s.keyPrefix, created.ID)
	titlesKey := redisKeyRoomTitles(s.keyPrefix)
	reply, err := createRoomScript.Exec(ctx, s.client, []string{key, titlesKey},
		[]string{data, strings.ToLower(created.Title), created.ID}).AsInt64()
	if err != nil {
		return nil, fmt.Errorf("failed to exec create room script: %w", err)
	}
	switch reply {
	case -3:
		return nil, fmt.Errorf("room id %q already taken", created.ID)
	case -4:
		return nil, zoo.NewError(zoo.CodeRoomExists, fmt.Errorf("room with title %q already exists", created.Title))
	}
	return &created, nil
}

func (s *redisStore) PutRoom(ctx context.Context, room *zoo.Room) (*zoo.Room, error) {
	updated := *room
	updated.Updated = time.Now().UTC()

	data, err := encodeRoom(&updated)
	if err != nil {
		return nil, err
	}
	key := redisKeyRoom(s.keyPrefix, updated.ID)
	titlesKey := redisKeyRoomTitles(s.keyPrefix)
	reply, err := putRoomScript.Exec(ctx, s.client, []string{key, titlesKey},
		[]string{data, fmt.Sprint(updated.Version), strings.ToLower(updated.Title), updated.ID}).AsInt64()
	if err != nil {
		return nil, fmt.Errorf("failed to exec put room script: %w", err)
	}
	switch reply {
	case -1:
		return nil, zoo.NewError(zoo.CodeRoomNotFound, fmt.Errorf("room %q not found", updated.ID))
	case -2:
		return nil, zoo.NewError(zoo.CodeConcurrency, fmt.Errorf("version conflict writing room %q at version %d", updated.ID, updated.Version))
	case -4:
		return nil, zoo.NewError(zoo.CodeRoomExists, fmt.Errorf("room with title %q already exists", updated.Title))
	}
	updated.Version = reply
	return &updated, nil
}

func (s *redisStore) DeleteRoom(ctx context.Context, id string) error {
	key := redisKeyRoom(s.keyPrefix, id)
	titlesKey := redisKeyRoomTitles(s.keyPrefix)
	reply, err := deleteRoomScript.Exec(ctx, s.client, []string{key, titlesKey}, nil).AsInt64()
	if err != nil {
		return fmt.Errorf("failed to exec delete room script: %w", err)
	}
	if reply == -1 {
		return zoo.NewError(zoo.CodeRoomNotFound, fmt.Errorf("room %q not found", id))
	}
	return nil
}

func (s *redisStore) RoomTitleExists(ctx context.Context, title string) (bool, error) {
	cmd := s.client.B().Hexists().Key(redisKeyRoomTitles(s.keyPrefix)).Field(strings.ToLower(title)).Build()
	exists, err := s.client.Do(ctx, cmd).AsBool()
	if err != nil {
		return false, fmt.Errorf("failed to check room title %q: %w", title, err)
	}
	return exists, nil
}

func (s *redisStore) FavouriteRoomCounts(ctx context.Context) ([]zoo.FavouriteRoomCount, error) {
	counts := make(map[string]int64)
	var cursor uint64
	for {
		cmd := s.client.B().Scan().Cursor(cursor).Match(redisKeyAnimalPattern(s.keyPrefix)).Count(100).Build()
		entry, err := s.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("failed to scan animal documents: %w", err)
		}
		for _, key := range entry.Elements {
			data, version, err := s.getDoc(ctx, key)
			if err != nil {
				if errors.Is(err, errDocMissing) {
					continue
				}
				return nil, err
			}
			animal, err := decodeAnimal(data, version)
			if err != nil {
				return nil, err
			}
			for _, roomID := range animal.FavouriteRoomIDs {
				counts[roomID]++
			}
		}
		cursor = entry.Cursor
		if cursor == 0 {
			break
		}
	}

	result := make([]zoo.FavouriteRoomCount, 0, len(counts))
	for roomID, count := range counts {
		room, err := s.GetRoom(ctx, roomID)
		if err != nil {
			// favourites may reference rooms deleted since; drop them
			if zoo.ErrorHasCode(err, zoo.CodeRoomNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, zoo.FavouriteRoomCount{RoomID: roomID, Title: room.Title, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Title < result[j].Title
	})
	return result, nil
}

var errDocMissing = errors.New("document missing")

func (s *redisStore) getDoc(ctx context.Context, key string) (string, int64, error) {
	cmd := s.client.B().Hmget().Key(key).Field(fieldData, fieldVersion).Build()
	fields, err := s.client.Do(ctx, cmd).ToArray()
	if err != nil {
		return "", 0, fmt.Errorf("failed to HMGET document '%s': %w", key, err)
	}
	data, err := fields[0].ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", 0, errDocMissing
		}
		return "", 0, fmt.Errorf("failed to read document data '%s': %w", key, err)
	}
	version, err := fields[1].AsInt64()
	if err != nil {
		return "", 0, fmt.Errorf("failed to read document version '%s': %w", key, err)
	}
	return data, version, nil
}
