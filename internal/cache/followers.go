// Package cache keeps hot follower/following lists in redis so profile pages
// do not hit the primary store on every render.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/recipe-graph/internal/model"
)

// FollowerProfile contains the minimal user info follower pages render.
type FollowerProfile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// FollowerCache serves paged follower profiles from a redis id index plus
// per-user snapshot keys, falling back to the primary store on miss.
type FollowerCache struct {
	db    *gorm.DB
	cache *redis.Client
	ttl   time.Duration
}

func NewFollowerCache(db *gorm.DB, cache *redis.Client, ttl time.Duration) *FollowerCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &FollowerCache{db: db, cache: cache, ttl: ttl}
}

func indexKey(userID string) string   { return "followers:index:" + userID }
func profileKey(userID string) string { return "profile:snap:" + userID }

// Fetch returns one page of follower profiles for userID, newest first.
func (s *FollowerCache) Fetch(ctx context.Context, userID string, page, size int) ([]FollowerProfile, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	start := (page - 1) * size
	end := start + size - 1

	// Range over the cached id list first; LRANGE only touches the page.
	var ids []string
	if exists, _ := s.cache.Exists(ctx, indexKey(userID)).Result(); exists > 0 {
		ids, _ = s.cache.LRange(ctx, indexKey(userID), int64(start), int64(end)).Result()
	}

	if len(ids) == 0 {
		allIDs, err := s.loadIndex(ctx, userID)
		if err != nil {
			return nil, err
		}
		if start >= len(allIDs) {
			return []FollowerProfile{}, nil
		}
		endIdx := start + size
		if endIdx > len(allIDs) {
			endIdx = len(allIDs)
		}
		ids = allIDs[start:endIdx]
	}

	return s.loadProfiles(ctx, ids)
}

// Invalidate drops the cached id index after a follow/unfollow.
func (s *FollowerCache) Invalidate(ctx context.Context, userID string) {
	_ = s.cache.Del(ctx, indexKey(userID)).Err()
}

func (s *FollowerCache) loadIndex(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).
		Table("fans").
		Select("fan_id").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(&ids).Error; err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		pipe := s.cache.Pipeline()
		pipe.Del(ctx, indexKey(userID))
		pipe.RPush(ctx, indexKey(userID), interfaceSlice(ids)...)
		pipe.Expire(ctx, indexKey(userID), s.ttl)
		_, _ = pipe.Exec(ctx)
	}
	return ids, nil
}

func (s *FollowerCache) loadProfiles(ctx context.Context, ids []string) ([]FollowerProfile, error) {
	if len(ids) == 0 {
		return []FollowerProfile{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = profileKey(id)
	}

	cached := make(map[string]FollowerProfile, len(ids))
	if vals, err := s.cache.MGet(ctx, keys...).Result(); err == nil {
		for i, v := range vals {
			str, ok := v.(string)
			if !ok {
				continue
			}
			var p FollowerProfile
			if uErr := json.Unmarshal([]byte(str), &p); uErr == nil {
				cached[ids[i]] = p
			}
		}
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := cached[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		var users []model.User
		if err := s.db.WithContext(ctx).Where("id IN ?", missing).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			p := FollowerProfile{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
			cached[u.ID] = p
			if payload, err := json.Marshal(p); err == nil {
				_ = s.cache.Set(ctx, profileKey(u.ID), payload, s.ttl).Err()
			}
		}
	}

	result := make([]FollowerProfile, 0, len(ids))
	for _, id := range ids {
		if p, ok := cached[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func interfaceSlice(strs []string) []interface{} {
	result := make([]interface{}, len(strs))
	for i, s := range strs {
		result[i] = s
	}
	return result
}
