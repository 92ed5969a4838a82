package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableLists         = "lists"
	tableTopics        = "topics"
	tableRequests      = "requests"
	tableSettings      = "settings"
	tablePrayerStats   = "prayer_stats"
	tableSessionEvents = "session_events"
)

// Ordered membership (list -> topics, topic -> requests) is stored as JSON
// id arrays so user ordering and transient multi-membership survive.
var (
	listsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString},
		{Name: "topic_ids", Type: field.TypeJSON},
		{Name: "exclude_from_all", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
	}
	listsTable = &schema.Table{
		Name:       tableLists,
		Columns:    listsColumns,
		PrimaryKey: []*schema.Column{listsColumns[0]},
	}

	topicsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString},
		{Name: "request_ids", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
	}
	topicsTable = &schema.Table{
		Name:       tableTopics,
		Columns:    topicsColumns,
		PrimaryKey: []*schema.Column{topicsColumns[0]},
	}

	requestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "description", Type: field.TypeString},
		{Name: "created_date", Type: field.TypeTime},
		{Name: "priority", Type: field.TypeInt, Default: 1},
		{Name: "prayer_count", Type: field.TypeInt, Default: 0},
		{Name: "answered_date", Type: field.TypeTime, Nullable: true},
		{Name: "answer_description", Type: field.TypeString, Default: ""},
		{Name: "archived", Type: field.TypeBool, Default: false},
	}
	requestsTable = &schema.Table{
		Name:       tableRequests,
		Columns:    requestsColumns,
		PrimaryKey: []*schema.Column{requestsColumns[0]},
	}

	settingsColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeJSON},
		{Name: "updated_at", Type: field.TypeTime},
	}
	settingsTable = &schema.Table{
		Name:       tableSettings,
		Columns:    settingsColumns,
		PrimaryKey: []*schema.Column{settingsColumns[0]},
	}

	prayerStatsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "data", Type: field.TypeJSON},
		{Name: "updated_at", Type: field.TypeTime},
	}
	prayerStatsTable = &schema.Table{
		Name:       tablePrayerStats,
		Columns:    prayerStatsColumns,
		PrimaryKey: []*schema.Column{prayerStatsColumns[0]},
	}

	sessionEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "list_id", Type: field.TypeInt, Default: 0},
		{Name: "item_count", Type: field.TypeInt, Default: 0},
		{Name: "duration_secs", Type: field.TypeInt, Default: 0},
		{Name: "prayed_count", Type: field.TypeInt, Default: 0},
		{Name: "answered_count", Type: field.TypeInt, Default: 0},
	}
	sessionEventsTable = &schema.Table{
		Name:       tableSessionEvents,
		Columns:    sessionEventsColumns,
		PrimaryKey: []*schema.Column{sessionEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "sessionevent_session_id", Columns: []*schema.Column{sessionEventsColumns[3]}},
		},
	}

	// tables is every table the migrator manages. global_sequence is created
	// by the sequence counter itself.
	tables = []*schema.Table{
		listsTable,
		topicsTable,
		requestsTable,
		settingsTable,
		prayerStatsTable,
		sessionEventsTable,
	}
)
