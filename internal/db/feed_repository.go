package db

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/gridfan/paddock/internal/feed"
	"github.com/gridfan/paddock/internal/models"
)

// FeedRepository implements feed.Gateway over the relational store. Count
// aggregates are computed with correlated subqueries; profile joins are
// batched per page rather than issued per row.
type FeedRepository struct {
	db *gorm.DB
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(database *DB) *FeedRepository {
	return &FeedRepository{db: database.DB}
}

var _ feed.Gateway = (*FeedRepository)(nil)

type threadScan struct {
	models.Thread
	LikeCount  int `gorm:"column:like_count"`
	ReplyCount int `gorm:"column:reply_count"`
}

type repostScan struct {
	models.Repost
	LikeCount  int `gorm:"column:like_count"`
	ReplyCount int `gorm:"column:reply_count"`
}

const (
	threadSelect = "threads.*, " +
		"(SELECT count(*) FROM likes WHERE likes.thread_id = threads.id) AS like_count, " +
		"(SELECT count(*) FROM replies WHERE replies.thread_id = threads.id) AS reply_count"
	repostSelect = "reposts.*, " +
		"(SELECT count(*) FROM likes WHERE likes.repost_id = reposts.id) AS like_count, " +
		"(SELECT count(*) FROM repost_replies WHERE repost_replies.repost_id = reposts.id) AS reply_count"
)

// ThreadPage returns one page of thread rows ordered by created_at descending
func (r *FeedRepository) ThreadPage(ctx context.Context, q feed.PageQuery) ([]feed.ThreadRow, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Thread{}).
		Select(threadSelect)

	if len(q.AuthorIDs) > 0 {
		query = query.Where("threads.user_id IN ?", q.AuthorIDs)
	}
	if q.BookmarkedBy != "" {
		query = query.
			Joins("INNER JOIN bookmarks ON bookmarks.thread_id = threads.id").
			Where("bookmarks.user_id = ?", q.BookmarkedBy)
	}
	if q.Search != "" {
		query = query.Where("threads.content ILIKE ?", "%"+q.Search+"%")
	}

	var scans []threadScan
	if err := query.
		Order("threads.created_at DESC").
		Offset(q.Offset).
		Limit(q.Limit).
		Scan(&scans).Error; err != nil {
		return nil, fmt.Errorf("thread page query: %w", err)
	}

	userIDs := make([]string, 0, len(scans))
	for _, s := range scans {
		userIDs = append(userIDs, s.UserID)
	}
	profiles, err := r.profilesByUserID(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	rows := make([]feed.ThreadRow, 0, len(scans))
	for _, s := range scans {
		rows = append(rows, threadRowFromScan(s, profiles))
	}
	return rows, nil
}

// RepostPage returns one page of repost rows ordered by created_at
// descending, each with its embedded original thread row.
func (r *FeedRepository) RepostPage(ctx context.Context, q feed.PageQuery) ([]feed.RepostRow, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Repost{}).
		Select(repostSelect)

	if len(q.AuthorIDs) > 0 {
		query = query.Where("reposts.user_id IN ?", q.AuthorIDs)
	}
	if q.Search != "" {
		query = query.Where("reposts.content ILIKE ?", "%"+q.Search+"%")
	}

	var scans []repostScan
	if err := query.
		Order("reposts.created_at DESC").
		Offset(q.Offset).
		Limit(q.Limit).
		Scan(&scans).Error; err != nil {
		return nil, fmt.Errorf("repost page query: %w", err)
	}

	userIDs := make([]string, 0, len(scans))
	threadIDs := make([]int64, 0, len(scans))
	for _, s := range scans {
		userIDs = append(userIDs, s.UserID)
		threadIDs = append(threadIDs, s.ThreadID)
	}

	profiles, err := r.profilesByUserID(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	originals, err := r.threadRowsByID(ctx, threadIDs)
	if err != nil {
		return nil, err
	}

	rows := make([]feed.RepostRow, 0, len(scans))
	for _, s := range scans {
		row := feed.RepostRow{
			ID:         s.ID,
			UserID:     s.UserID,
			ThreadID:   s.ThreadID,
			Content:    s.Content,
			ImageURL:   s.ImageURL,
			CreatedAt:  s.CreatedAt,
			LikeCount:  s.LikeCount,
			ReplyCount: s.ReplyCount,
			Author:     profiles[s.UserID],
		}
		if original, ok := originals[s.ThreadID]; ok {
			row.Original = &original
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// threadRowsByID fetches thread rows with counts and profiles for the given
// ids, for embedding as repost originals
func (r *FeedRepository) threadRowsByID(ctx context.Context, ids []int64) (map[int64]feed.ThreadRow, error) {
	out := make(map[int64]feed.ThreadRow, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var scans []threadScan
	if err := r.db.WithContext(ctx).
		Model(&models.Thread{}).
		Select(threadSelect).
		Where("threads.id IN ?", ids).
		Scan(&scans).Error; err != nil {
		return nil, fmt.Errorf("original threads query: %w", err)
	}

	userIDs := make([]string, 0, len(scans))
	for _, s := range scans {
		userIDs = append(userIDs, s.UserID)
	}
	profiles, err := r.profilesByUserID(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	for _, s := range scans {
		out[s.ID] = threadRowFromScan(s, profiles)
	}
	return out, nil
}

// profilesByUserID batch-fetches profiles; missing ids are simply absent
func (r *FeedRepository) profilesByUserID(ctx context.Context, userIDs []string) (map[string]*feed.ProfileRow, error) {
	out := make(map[string]*feed.ProfileRow, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var profiles []models.Profile
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("profiles query: %w", err)
	}

	for _, p := range profiles {
		out[p.UserID] = &feed.ProfileRow{
			Username:     p.Username,
			AvatarURL:    p.AvatarURL,
			FavoriteTeam: p.FavoriteTeam,
		}
	}
	return out, nil
}

func threadRowFromScan(s threadScan, profiles map[string]*feed.ProfileRow) feed.ThreadRow {
	return feed.ThreadRow{
		ID:         s.ID,
		UserID:     s.UserID,
		Content:    s.Content,
		ImageURL:   s.ImageURL,
		CreatedAt:  s.CreatedAt,
		LikeCount:  s.LikeCount,
		ReplyCount: s.ReplyCount,
		Author:     profiles[s.UserID],
	}
}

// LikedThreadIDs reports which of the given thread ids the user has liked
func (r *FeedRepository) LikedThreadIDs(ctx context.Context, userID string, threadIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(threadIDs))
	if len(threadIDs) == 0 {
		return out, nil
	}
	var likes []models.Like
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND thread_id IN ?", userID, threadIDs).
		Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("thread likes query: %w", err)
	}
	for _, l := range likes {
		if l.ThreadID.Valid {
			out[l.ThreadID.Int64] = true
		}
	}
	return out, nil
}

// LikedRepostIDs reports which of the given repost ids the user has liked
func (r *FeedRepository) LikedRepostIDs(ctx context.Context, userID string, repostIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(repostIDs))
	if len(repostIDs) == 0 {
		return out, nil
	}
	var likes []models.Like
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND repost_id IN ?", userID, repostIDs).
		Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("repost likes query: %w", err)
	}
	for _, l := range likes {
		if l.RepostID.Valid {
			out[l.RepostID.Int64] = true
		}
	}
	return out, nil
}

// BookmarkedThreadIDs reports which of the given thread ids the user has
// bookmarked
func (r *FeedRepository) BookmarkedThreadIDs(ctx context.Context, userID string, threadIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(threadIDs))
	if len(threadIDs) == 0 {
		return out, nil
	}
	var bookmarks []models.Bookmark
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND thread_id IN ?", userID, threadIDs).
		Find(&bookmarks).Error; err != nil {
		return nil, fmt.Errorf("bookmarks query: %w", err)
	}
	for _, b := range bookmarks {
		out[b.ThreadID] = true
	}
	return out, nil
}

// FollowingIDs returns the user ids the given user follows
func (r *FeedRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("follows query: %w", err)
	}
	return ids, nil
}

// InsertLike records a like on a thread or repost
func (r *FeedRepository) InsertLike(ctx context.Context, userID string, id int64, kind feed.Kind) error {
	like := models.Like{UserID: userID}
	if kind == feed.KindRepost {
		like.RepostID = sql.NullInt64{Int64: id, Valid: true}
	} else {
		like.ThreadID = sql.NullInt64{Int64: id, Valid: true}
	}
	return r.db.WithContext(ctx).Create(&like).Error
}

// DeleteLike removes a like on a thread or repost
func (r *FeedRepository) DeleteLike(ctx context.Context, userID string, id int64, kind feed.Kind) error {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if kind == feed.KindRepost {
		query = query.Where("repost_id = ?", id)
	} else {
		query = query.Where("thread_id = ?", id)
	}
	return query.Delete(&models.Like{}).Error
}

// InsertBookmark records a bookmark on a thread
func (r *FeedRepository) InsertBookmark(ctx context.Context, userID string, threadID int64) error {
	bookmark := models.Bookmark{UserID: userID, ThreadID: threadID}
	return r.db.WithContext(ctx).Create(&bookmark).Error
}

// DeleteBookmark removes a bookmark on a thread
func (r *FeedRepository) DeleteBookmark(ctx context.Context, userID string, threadID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND thread_id = ?", userID, threadID).
		Delete(&models.Bookmark{}).Error
}

// InsertThread creates a new thread and returns its id
func (r *FeedRepository) InsertThread(ctx context.Context, userID, content, imageURL string) (int64, error) {
	thread := models.Thread{UserID: userID, Content: content, ImageURL: imageURL}
	if err := r.db.WithContext(ctx).Create(&thread).Error; err != nil {
		return 0, err
	}
	return thread.ID, nil
}

// InsertRepost creates a new repost and returns its id
func (r *FeedRepository) InsertRepost(ctx context.Context, userID string, threadID int64, content, imageURL string) (int64, error) {
	repost := models.Repost{UserID: userID, ThreadID: threadID, Content: content, ImageURL: imageURL}
	if err := r.db.WithContext(ctx).Create(&repost).Error; err != nil {
		return 0, err
	}
	return repost.ID, nil
}

// DeleteThread removes a thread owned by the user
func (r *FeedRepository) DeleteThread(ctx context.Context, userID string, id int64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Thread{}).Error
}

// DeleteRepost removes a repost owned by the user
func (r *FeedRepository) DeleteRepost(ctx context.Context, userID string, id int64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Repost{}).Error
}
