package service

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable 底层存储不可达或查询超时
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrInvalidRelationship 非法关系操作（自关注等）
	ErrInvalidRelationship = errors.New("invalid relationship")
	// ErrInconsistentEdge 镜像边只有单边存在
	ErrInconsistentEdge = errors.New("inconsistent mirrored edge")
	// ErrNotFound 引用的实体已不存在
	ErrNotFound = errors.New("not found")
	// ErrForbidden 非本人操作
	ErrForbidden = errors.New("forbidden")
)

// storeErr 包装存储错误，带上操作名和相关 id，方便排查
func storeErr(op, id string, err error) error {
	return fmt.Errorf("%w: %s id=%s: %v", ErrStoreUnavailable, op, id, err)
}

// edgeErr 包装镜像边不一致，带上两端 id
func edgeErr(from, to, side string) error {
	return fmt.Errorf("%w: from=%s to=%s dangling=%s", ErrInconsistentEdge, from, to, side)
}
