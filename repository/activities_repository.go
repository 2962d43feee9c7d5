package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"feed-api/models"
	"feed-api/query"

	"github.com/lib/pq"
)

type ActivitiesRepository struct {
	db *sql.DB
}

func NewActivitiesRepository(db *sql.DB) *ActivitiesRepository {
	return &ActivitiesRepository{db: db}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

const activityColumns = `
	a.id, a.user_id, COALESCE(u.display_name, ''), a.component, a.type, a.action,
	a.content, a.primary_link, a.item_id, a.secondary_item_id, a.date_recorded,
	a.hide_sitewide, a.is_spam`

// QueryActivities returns one page of activities matching args, with the
// total row count when args.CountTotal is set.
func (r *ActivitiesRepository) QueryActivities(ctx context.Context, args query.Args) (*models.ActivityPage, error) {
	sqlText, params := buildListQuery(args)
	rows, err := r.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	page := &models.ActivityPage{Items: []models.Activity{}}
	for rows.Next() {
		var a models.Activity
		var recorded sql.NullTime
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.DisplayName, &a.Component, &a.Type, &a.Action,
			&a.Content, &a.PrimaryLink, &a.ItemID, &a.SecondaryItemID, &recorded,
			&a.HideSitewide, &a.IsSpam,
		); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if recorded.Valid {
			a.DateRecorded = recorded.Time
		}
		page.Items = append(page.Items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}

	if args.UpdateMetaCache && len(page.Items) > 0 {
		if err := r.attachMeta(ctx, page.Items); err != nil {
			return nil, err
		}
	}

	if args.CountTotal {
		countText, countParams := buildCountQuery(args)
		if err := r.db.QueryRowContext(ctx, countText, countParams...).Scan(&page.Total); err != nil {
			return nil, fmt.Errorf("count activities: %w", err)
		}
		page.Counted = true
	}
	return page, nil
}

func (r *ActivitiesRepository) attachMeta(ctx context.Context, items []models.Activity) error {
	ids := make([]int64, len(items))
	index := make(map[int]int, len(items))
	for i := range items {
		ids[i] = int64(items[i].ID)
		index[items[i].ID] = i
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT activity_id, meta_key, meta_value
		FROM activity_meta
		WHERE activity_id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query activity meta: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int
		var key, value string
		if err := rows.Scan(&id, &key, &value); err != nil {
			return fmt.Errorf("scan activity meta: %w", err)
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		if items[i].Meta == nil {
			items[i].Meta = make(map[string]string)
		}
		items[i].Meta[key] = value
	}
	return rows.Err()
}

// CreateActivity inserts draft and applies effects in one transaction. Any
// failure rolls the whole create back.
func (r *ActivitiesRepository) CreateActivity(ctx context.Context, draft models.ActivityDraft, effects models.CreateEffects) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback()

	sqlText, params := buildInsert(draft)
	var id int
	if err := tx.QueryRowContext(ctx, sqlText, params...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert activity: %w", err)
	}

	if effects.Visibility != nil {
		if err := setVisibility(ctx, tx, effects.Visibility.Scope, effects.Visibility.UserID, id); err != nil {
			return 0, err
		}
	}
	for _, m := range effects.Meta {
		if err := updateMeta(ctx, tx, id, m.Key, m.Value); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create: %w", err)
	}
	return id, nil
}

// UpdateMeta sets a single metadata value on an existing activity.
func (r *ActivitiesRepository) UpdateMeta(ctx context.Context, activityID int, key, value string) error {
	return updateMeta(ctx, r.db, activityID, key, value)
}

// SetVisibility records the visibility option chosen by userID for an activity.
func (r *ActivitiesRepository) SetVisibility(ctx context.Context, scope string, userID, activityID int) error {
	return setVisibility(ctx, r.db, scope, userID, activityID)
}

func updateMeta(ctx context.Context, db execer, activityID int, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO activity_meta (activity_id, meta_key, meta_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (activity_id, meta_key) DO UPDATE SET meta_value = EXCLUDED.meta_value
	`, activityID, key, value)
	if err != nil {
		return fmt.Errorf("set activity meta %s: %w", key, err)
	}
	return nil
}

func setVisibility(ctx context.Context, db execer, scope string, userID, activityID int) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO activity_visibility (activity_id, visibility, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (activity_id) DO UPDATE SET visibility = EXCLUDED.visibility, user_id = EXCLUDED.user_id
	`, activityID, scope, userID)
	if err != nil {
		return fmt.Errorf("set activity visibility: %w", err)
	}
	return nil
}

// buildInsert only names the columns the draft sets; the rest keep their defaults.
func buildInsert(d models.ActivityDraft) (string, []interface{}) {
	cols := []string{"user_id"}
	params := []interface{}{d.UserID}
	add := func(col string, v interface{}) {
		cols = append(cols, col)
		params = append(params, v)
	}
	if d.Component != nil {
		add("component", *d.Component)
	}
	if d.Type != nil {
		add("type", *d.Type)
	}
	if d.Content != nil {
		add("content", *d.Content)
	}
	if d.ItemID != nil {
		add("item_id", *d.ItemID)
	}
	if d.SecondaryItemID != nil {
		add("secondary_item_id", *d.SecondaryItemID)
	}

	placeholders := make([]string, len(params))
	for i := range params {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	sqlText := fmt.Sprintf(
		"INSERT INTO activities (%s, date_recorded) VALUES (%s, NOW()) RETURNING id",
		strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)
	return sqlText, params
}

// whereBuilder collects AND-ed conditions with postgres positional parameters.
type whereBuilder struct {
	conditions []string
	args       []interface{}
}

func (w *whereBuilder) arg(v interface{}) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *whereBuilder) add(cond string) {
	w.conditions = append(w.conditions, cond)
}

func (w *whereBuilder) sql() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}

func buildWhere(args query.Args) *whereBuilder {
	w := &whereBuilder{}

	switch args.Spam {
	case query.SpamOnly:
		w.add("a.is_spam = TRUE")
	case query.HamOnly:
		w.add("a.is_spam = FALSE")
	}
	if !args.ShowHidden {
		w.add("a.hide_sitewide = FALSE")
	}
	if len(args.In) > 0 {
		w.add("a.id = ANY(" + w.arg(pq.Array(int64s(args.In))) + ")")
	}
	if len(args.Exclude) > 0 {
		w.add("NOT (a.id = ANY(" + w.arg(pq.Array(int64s(args.Exclude))) + "))")
	}

	f := args.Filter
	if ids := f.UserIDs(); len(ids) > 0 {
		w.add("a.user_id = ANY(" + w.arg(pq.Array(int64s(ids))) + ")")
	}
	if obj := f.Object(); obj != "" {
		w.add("a.component = " + w.arg(obj))
	}
	if act := f.Action(); act != "" {
		w.add("a.type = " + w.arg(act))
	}
	if ids := f.PrimaryIDs(); len(ids) > 0 {
		w.add("a.item_id = ANY(" + w.arg(pq.Array(int64s(ids))) + ")")
	}
	if len(args.SecondaryIDs) > 0 {
		w.add("a.secondary_item_id = ANY(" + w.arg(pq.Array(int64s(args.SecondaryIDs))) + ")")
	}
	if args.Since != nil {
		w.add("a.date_recorded > " + w.arg(args.Since.UTC()))
	}
	if args.SearchTerms != "" {
		w.add("a.content ILIKE " + w.arg("%"+escapeLike(args.SearchTerms)+"%"))
	}

	if args.ScopeUserID > 0 {
		switch args.Scope {
		case query.ScopeJustMe:
			w.add("a.user_id = " + w.arg(args.ScopeUserID))
		case query.ScopeFriends:
			p := w.arg(args.ScopeUserID)
			w.add(`a.user_id IN (
				SELECT friend_user_id FROM friendships WHERE initiator_user_id = ` + p + ` AND is_confirmed
				UNION
				SELECT initiator_user_id FROM friendships WHERE friend_user_id = ` + p + ` AND is_confirmed
			)`)
		case query.ScopeGroup:
			p := w.arg(args.ScopeUserID)
			w.add(`a.component = 'groups' AND a.item_id IN (
				SELECT group_id FROM group_members WHERE user_id = ` + p + ` AND is_confirmed AND NOT is_banned
			)`)
		}
	}
	return w
}

func buildListQuery(args query.Args) (string, []interface{}) {
	w := buildWhere(args)
	sort := query.SortDesc
	if args.Sort == query.SortAsc {
		sort = query.SortAsc
	}

	var b strings.Builder
	b.WriteString("SELECT")
	b.WriteString(activityColumns)
	b.WriteString("\n\tFROM activities a LEFT JOIN users u ON u.id = a.user_id")
	b.WriteString(w.sql())
	b.WriteString(fmt.Sprintf(" ORDER BY a.date_recorded %s, a.id %s", sort, sort))
	if args.PerPage > 0 {
		b.WriteString(" LIMIT " + w.arg(args.PerPage))
		b.WriteString(" OFFSET " + w.arg(args.Offset()))
	}
	return b.String(), w.args
}

func buildCountQuery(args query.Args) (string, []interface{}) {
	w := buildWhere(args)
	return "SELECT COUNT(*) FROM activities a" + w.sql(), w.args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func int64s(ids []int) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
