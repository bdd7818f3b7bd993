package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableKnowledgeTags   = "knowledge_tags"
	tableErrorItems      = "error_items"
	tablePracticeRecords = "practice_records"
	tableLLMEvents       = "llm_request_events"
)

var (
	knowledgeTagsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString},
		{Name: "subject", Type: field.TypeString},
		{Name: "is_system", Type: field.TypeBool, Default: false},
		{Name: "sort_order", Type: field.TypeInt, Default: 0},
		{Name: "user_id", Type: field.TypeString, Default: ""},
		{Name: "parent_id", Type: field.TypeInt, Nullable: true},
	}
	knowledgeTagsTable = &schema.Table{
		Name:       tableKnowledgeTags,
		Columns:    knowledgeTagsColumns,
		PrimaryKey: []*schema.Column{knowledgeTagsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "knowledge_tags_parent",
				Columns:    []*schema.Column{knowledgeTagsColumns[6]},
				RefColumns: []*schema.Column{knowledgeTagsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "knowledgetag_subject_is_system_parent_id",
				Columns: []*schema.Column{knowledgeTagsColumns[2], knowledgeTagsColumns[3], knowledgeTagsColumns[6]},
			},
		},
	}

	errorItemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "subject", Type: field.TypeString, Default: ""},
		{Name: "grade", Type: field.TypeString, Default: ""},
		{Name: "question_text", Type: field.TypeString, Size: 2147483647},
		{Name: "answer", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "analysis", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "knowledge_points", Type: field.TypeString, Default: "[]"},
		{Name: "requires_image", Type: field.TypeBool, Default: false},
		{Name: "mastery", Type: field.TypeInt, Default: 0},
		{Name: "created_at", Type: field.TypeTime},
	}
	errorItemsTable = &schema.Table{
		Name:       tableErrorItems,
		Columns:    errorItemsColumns,
		PrimaryKey: []*schema.Column{errorItemsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "erroritem_user_id_created_at",
				Columns: []*schema.Column{errorItemsColumns[1], errorItemsColumns[10]},
			},
		},
	}

	practiceRecordsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "error_item_id", Type: field.TypeString},
		{Name: "correct", Type: field.TypeBool},
		{Name: "practiced_at", Type: field.TypeTime},
	}
	practiceRecordsTable = &schema.Table{
		Name:       tablePracticeRecords,
		Columns:    practiceRecordsColumns,
		PrimaryKey: []*schema.Column{practiceRecordsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "practice_records_error_item",
				Columns:    []*schema.Column{practiceRecordsColumns[1]},
				RefColumns: []*schema.Column{errorItemsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "practicerecord_error_item_id_practiced_at",
				Columns: []*schema.Column{practiceRecordsColumns[1], practiceRecordsColumns[3]},
			},
		},
	}

	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmEventsTable = &schema.Table{
		Name:       tableLLMEvents,
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Columns: []*schema.Column{llmEventsColumns[4]},
			},
		},
	}

	tables = []*schema.Table{
		knowledgeTagsTable,
		errorItemsTable,
		practiceRecordsTable,
		llmEventsTable,
	}
)

func init() {
	knowledgeTagsTable.ForeignKeys[0].RefTable = knowledgeTagsTable
	practiceRecordsTable.ForeignKeys[0].RefTable = errorItemsTable
}
