package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/prayz/internal/prayer"
)

// entityRepo implements EntityRepo with ent's SQL builder over SQLite.
type entityRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *entityRepo) Collections(ctx context.Context) (*prayer.Collections, error) {
	return loadCollections(ctx, r.db)
}

func (r *entityRepo) CreateList(ctx context.Context, name string) (prayer.List, error) {
	l, err := prayer.NewList(name)
	if err != nil {
		return prayer.List{}, err
	}
	query, args := builder.Insert(tableLists).
		Columns("name", "topic_ids", "exclude_from_all", "created_at").
		Values(l.Name, encodeIDs(l.TopicIDs), false, r.now().UTC()).
		Query()
	id, err := insert(ctx, r.db, query, args)
	if err != nil {
		return prayer.List{}, fmt.Errorf("save list: %w", err)
	}
	l.ID = id
	return l, nil
}

func (r *entityRepo) RenameList(ctx context.Context, id int, name string) error {
	l, err := prayer.NewList(name)
	if err != nil {
		return err
	}
	return updateColumn(ctx, r.db, tableLists, "list", id, "name", l.Name)
}

func (r *entityRepo) SetListExcluded(ctx context.Context, id int, excluded bool) error {
	return updateColumn(ctx, r.db, tableLists, "list", id, "exclude_from_all", excluded)
}

func (r *entityRepo) DeleteList(ctx context.Context, id int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		c, err := loadCollections(ctx, tx)
		if err != nil {
			return err
		}
		l := c.List(id)
		if l == nil {
			return &NotFoundError{Entity: "list", ID: id}
		}
		if err := deleteRow(ctx, tx, tableLists, id); err != nil {
			return err
		}
		for _, tid := range l.TopicIDs {
			if inOtherList(c.Lists, id, tid) {
				continue
			}
			// Reload so requests shared between deleted topics are seen as orphaned.
			if c, err = loadCollections(ctx, tx); err != nil {
				return err
			}
			if err := deleteTopic(ctx, tx, c, tid); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *entityRepo) CreateTopic(ctx context.Context, listID int, name string) (prayer.Topic, error) {
	t, err := prayer.NewTopic(name)
	if err != nil {
		return prayer.Topic{}, err
	}
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		l, err := getList(ctx, tx, listID)
		if err != nil {
			return err
		}
		query, args := builder.Insert(tableTopics).
			Columns("name", "request_ids", "created_at").
			Values(t.Name, encodeIDs(t.RequestIDs), r.now().UTC()).
			Query()
		id, err := insert(ctx, tx, query, args)
		if err != nil {
			return fmt.Errorf("save topic: %w", err)
		}
		t.ID = id
		return setIDs(ctx, tx, tableLists, "topic_ids", listID, append(l.TopicIDs, id))
	})
	if err != nil {
		return prayer.Topic{}, err
	}
	return t, nil
}

func (r *entityRepo) RenameTopic(ctx context.Context, id int, name string) error {
	t, err := prayer.NewTopic(name)
	if err != nil {
		return err
	}
	return updateColumn(ctx, r.db, tableTopics, "topic", id, "name", t.Name)
}

func (r *entityRepo) MoveTopic(ctx context.Context, topicID, toListID int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		c, err := loadCollections(ctx, tx)
		if err != nil {
			return err
		}
		if c.Topic(topicID) == nil {
			return &NotFoundError{Entity: "topic", ID: topicID}
		}
		target := c.List(toListID)
		if target == nil {
			return &NotFoundError{Entity: "list", ID: toListID}
		}
		for _, l := range c.Lists {
			if l.ID == toListID || !slices.Contains(l.TopicIDs, topicID) {
				continue
			}
			if err := setIDs(ctx, tx, tableLists, "topic_ids", l.ID, without(l.TopicIDs, topicID)); err != nil {
				return err
			}
		}
		if slices.Contains(target.TopicIDs, topicID) {
			return nil
		}
		return setIDs(ctx, tx, tableLists, "topic_ids", toListID, append(slices.Clone(target.TopicIDs), topicID))
	})
}

func (r *entityRepo) DeleteTopic(ctx context.Context, id int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		c, err := loadCollections(ctx, tx)
		if err != nil {
			return err
		}
		if c.Topic(id) == nil {
			return &NotFoundError{Entity: "topic", ID: id}
		}
		return deleteTopic(ctx, tx, c, id)
	})
}

func (r *entityRepo) CreateRequest(ctx context.Context, topicID int, description string, priority int) (prayer.Request, error) {
	req, err := prayer.NewRequest(description, priority, r.now().UTC())
	if err != nil {
		return prayer.Request{}, err
	}
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		t, err := getTopic(ctx, tx, topicID)
		if err != nil {
			return err
		}
		query, args := builder.Insert(tableRequests).
			Columns("description", "created_date", "priority", "prayer_count", "answer_description", "archived").
			Values(req.Description, req.CreatedDate, req.Priority, 0, "", false).
			Query()
		id, err := insert(ctx, tx, query, args)
		if err != nil {
			return fmt.Errorf("save request: %w", err)
		}
		req.ID = id
		return setIDs(ctx, tx, tableTopics, "request_ids", topicID, append(t.RequestIDs, id))
	})
	if err != nil {
		return prayer.Request{}, err
	}
	return req, nil
}

func (r *entityRepo) UpdateRequest(ctx context.Context, id int, changes prayer.RequestChanges) (prayer.Request, error) {
	var out prayer.Request
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		cur, err := getRequest(ctx, tx, id)
		if err != nil {
			return err
		}
		next := changes.Apply(cur)
		next.Description = strings.TrimSpace(next.Description)
		if next.Description == "" {
			return &prayer.ValidationError{Entity: "request", Field: "description", Reason: "must not be empty"}
		}

		u := builder.Update(tableRequests).
			Set("description", next.Description).
			Set("priority", next.Priority).
			Set("prayer_count", next.PrayerCount).
			Set("answer_description", next.AnswerDescription).
			Set("archived", next.Archived).
			Where(entsql.EQ("id", id))
		if next.AnsweredDate != nil {
			u.Set("answered_date", next.AnsweredDate.UTC())
		} else {
			u.SetNull("answered_date")
		}
		query, args := u.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update request: %w", err)
		}
		out = next
		return nil
	})
	return out, err
}

func (r *entityRepo) DeleteRequest(ctx context.Context, id int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		c, err := loadCollections(ctx, tx)
		if err != nil {
			return err
		}
		if c.Request(id) == nil {
			return &NotFoundError{Entity: "request", ID: id}
		}
		for _, t := range c.Topics {
			if !slices.Contains(t.RequestIDs, id) {
				continue
			}
			if err := setIDs(ctx, tx, tableTopics, "request_ids", t.ID, without(t.RequestIDs, id)); err != nil {
				return err
			}
		}
		return deleteRow(ctx, tx, tableRequests, id)
	})
}

func (r *entityRepo) Cleanup(ctx context.Context) (CleanupReport, error) {
	var report CleanupReport
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		c, err := loadCollections(ctx, tx)
		if err != nil {
			return err
		}

		seenTopics := make(map[int]bool)
		for _, l := range c.Lists {
			kept := make([]int, 0, len(l.TopicIDs))
			for _, tid := range l.TopicIDs {
				if seenTopics[tid] || c.Topic(tid) == nil {
					report.TopicLinksRemoved++
					continue
				}
				seenTopics[tid] = true
				kept = append(kept, tid)
			}
			if len(kept) != len(l.TopicIDs) {
				if err := setIDs(ctx, tx, tableLists, "topic_ids", l.ID, kept); err != nil {
					return err
				}
			}
		}

		seenRequests := make(map[int]bool)
		for _, t := range c.Topics {
			kept := make([]int, 0, len(t.RequestIDs))
			for _, rid := range t.RequestIDs {
				if seenRequests[rid] || c.Request(rid) == nil {
					report.RequestLinksRemoved++
					continue
				}
				seenRequests[rid] = true
				kept = append(kept, rid)
			}
			if len(kept) != len(t.RequestIDs) {
				if err := setIDs(ctx, tx, tableTopics, "request_ids", t.ID, kept); err != nil {
					return err
				}
			}
		}
		return nil
	})
	return report, err
}

func (r *entityRepo) Reset(ctx context.Context) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, table := range []string{tableRequests, tableTopics, tableLists} {
			query, args := builder.Delete(table).Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// deleteTopic removes topic id from every list and deletes it along with
// requests no other topic references.
func deleteTopic(ctx context.Context, q queryer, c *prayer.Collections, id int) error {
	for _, l := range c.Lists {
		if !slices.Contains(l.TopicIDs, id) {
			continue
		}
		if err := setIDs(ctx, q, tableLists, "topic_ids", l.ID, without(l.TopicIDs, id)); err != nil {
			return err
		}
	}
	if t := c.Topic(id); t != nil {
		for _, rid := range t.RequestIDs {
			if inOtherTopic(c.Topics, id, rid) {
				continue
			}
			if err := deleteRow(ctx, q, tableRequests, rid); err != nil {
				return err
			}
		}
	}
	return deleteRow(ctx, q, tableTopics, id)
}

// inOtherList reports whether a list other than listID holds topicID.
func inOtherList(lists []prayer.List, listID, topicID int) bool {
	for _, l := range lists {
		if l.ID != listID && slices.Contains(l.TopicIDs, topicID) {
			return true
		}
	}
	return false
}

// inOtherTopic reports whether a topic other than topicID holds requestID.
func inOtherTopic(topics []prayer.Topic, topicID, requestID int) bool {
	for _, t := range topics {
		if t.ID != topicID && slices.Contains(t.RequestIDs, requestID) {
			return true
		}
	}
	return false
}

func loadCollections(ctx context.Context, q queryer) (*prayer.Collections, error) {
	lists, err := loadLists(ctx, q)
	if err != nil {
		return nil, err
	}
	topics, err := loadTopics(ctx, q)
	if err != nil {
		return nil, err
	}
	requests, err := loadRequests(ctx, q, nil)
	if err != nil {
		return nil, err
	}
	return prayer.NewCollections(lists, topics, requests), nil
}

func selectLists() *entsql.Selector {
	return builder.Select("id", "name", "topic_ids", "exclude_from_all").
		From(builder.Table(tableLists)).
		OrderBy(entsql.Asc("id"))
}

func loadLists(ctx context.Context, q queryer, where ...*entsql.Predicate) ([]prayer.List, error) {
	s := selectLists()
	for _, p := range where {
		s.Where(p)
	}
	query, args := s.Query()
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	defer rows.Close()

	var out []prayer.List
	for rows.Next() {
		var (
			l   prayer.List
			ids string
		)
		if err := rows.Scan(&l.ID, &l.Name, &ids, &l.ExcludeFromAll); err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		if l.TopicIDs, err = decodeIDs(ids); err != nil {
			return nil, fmt.Errorf("decode list %d topics: %w", l.ID, err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func loadTopics(ctx context.Context, q queryer, where ...*entsql.Predicate) ([]prayer.Topic, error) {
	s := builder.Select("id", "name", "request_ids").
		From(builder.Table(tableTopics)).
		OrderBy(entsql.Asc("id"))
	for _, p := range where {
		s.Where(p)
	}
	query, args := s.Query()
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	var out []prayer.Topic
	for rows.Next() {
		var (
			t   prayer.Topic
			ids string
		)
		if err := rows.Scan(&t.ID, &t.Name, &ids); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		if t.RequestIDs, err = decodeIDs(ids); err != nil {
			return nil, fmt.Errorf("decode topic %d requests: %w", t.ID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func loadRequests(ctx context.Context, q queryer, where *entsql.Predicate) ([]prayer.Request, error) {
	s := builder.Select("id", "description", "created_date", "priority", "prayer_count",
		"answered_date", "answer_description", "archived").
		From(builder.Table(tableRequests)).
		OrderBy(entsql.Asc("id"))
	if where != nil {
		s.Where(where)
	}
	query, args := s.Query()
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	var out []prayer.Request
	for rows.Next() {
		var (
			r        prayer.Request
			answered sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.Description, &r.CreatedDate, &r.Priority, &r.PrayerCount,
			&answered, &r.AnswerDescription, &r.Archived); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		if answered.Valid {
			t := answered.Time
			r.AnsweredDate = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func getList(ctx context.Context, q queryer, id int) (prayer.List, error) {
	lists, err := loadLists(ctx, q, entsql.EQ("id", id))
	if err != nil {
		return prayer.List{}, err
	}
	if len(lists) == 0 {
		return prayer.List{}, &NotFoundError{Entity: "list", ID: id}
	}
	return lists[0], nil
}

func getTopic(ctx context.Context, q queryer, id int) (prayer.Topic, error) {
	topics, err := loadTopics(ctx, q, entsql.EQ("id", id))
	if err != nil {
		return prayer.Topic{}, err
	}
	if len(topics) == 0 {
		return prayer.Topic{}, &NotFoundError{Entity: "topic", ID: id}
	}
	return topics[0], nil
}

func getRequest(ctx context.Context, q queryer, id int) (prayer.Request, error) {
	reqs, err := loadRequests(ctx, q, entsql.EQ("id", id))
	if err != nil {
		return prayer.Request{}, err
	}
	if len(reqs) == 0 {
		return prayer.Request{}, &NotFoundError{Entity: "request", ID: id}
	}
	return reqs[0], nil
}

func insert(ctx context.Context, q queryer, query string, args []any) (int, error) {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// updateColumn sets one column on row id, reporting a missing row as
// NotFoundError for entity.
func updateColumn(ctx context.Context, q queryer, table, entity string, id int, column string, v any) error {
	query, args := builder.Update(table).Set(column, v).Where(entsql.EQ("id", id)).Query()
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", entity, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %w", entity, err)
	}
	if n == 0 {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return nil
}

func setIDs(ctx context.Context, q queryer, table, column string, id int, ids []int) error {
	query, args := builder.Update(table).Set(column, encodeIDs(ids)).Where(entsql.EQ("id", id)).Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s.%s: %w", table, column, err)
	}
	return nil
}

func deleteRow(ctx context.Context, q queryer, table string, id int) error {
	query, args := builder.Delete(table).Where(entsql.EQ("id", id)).Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return nil
}

func encodeIDs(ids []int) string {
	if ids == nil {
		ids = []int{}
	}
	b, _ := json.Marshal(ids)
	return string(b)
}

func decodeIDs(s string) ([]int, error) {
	ids := []int{}
	if s == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// without returns a copy of ids with every occurrence of id removed.
func without(ids []int, id int) []int {
	out := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
