package actionkit

import "fmt"

// signupQuery pulls one row per (action, question field) for a signup page,
// joining action fields and user fields into a single flattened stream and
// restricting to rows created or updated inside the lookback window. Column
// order is fixed; see ColumnCount.
const signupQuery = "SELECT DISTINCT m.user_id, first_name, middle_name, last_name, city, state, zip, email, " +
	"normalized_phone, subscription_status as email_subscription_status, name, " +
	"value, m.id as core_action_id, " +
	"m.created_at, m.updated_at, page_id FROM (SELECT * FROM (SELECT a.user_id, " +
	"u.first_name, u.middle_name, u.last_name, u.city, u.state, u.zip, u.email, " +
	"u.subscription_status, a.id, a.created_at, a.updated_at, f.name, f.value, a.page_id " +
	"FROM core_action as a LEFT JOIN core_actionfield as f ON a.id = f.parent_id " +
	"LEFT JOIN core_user as u ON a.user_id = u.id WHERE page_id = %d) as l " +
	"UNION ALL SELECT * FROM (SELECT a.user_id, u.first_name, u.middle_name, u.last_name, u.city, " +
	"u.state, u.zip, u.email, u.subscription_status, a.id, a.created_at, a.updated_at, f.name, f.value, " +
	"a.page_id FROM core_action as a LEFT JOIN core_userfield as f ON a.id = f.action_id " +
	"LEFT JOIN core_user as u ON a.user_id = u.id WHERE page_id = %d) as l WHERE name " +
	"IN ('gender','sms_subscriber') AND value IN('Prefer not to say','Man','Yes','Woman','Non-Binary'))" +
	" as m LEFT JOIN core_phone as p ON m.user_id = p.user_id AND (DATE(m.updated_at) = DATE(p.updated_at) OR DATE(m.created_at) = DATE(p.created_at))" +
	"WHERE (DATE(m.created_at) = DATE_SUB(CURDATE(), INTERVAL %d DAY)) OR (DATE(m.updated_at) = DATE_SUB(CURDATE(), INTERVAL %d DAY))"

// ColumnCount is the number of columns each signup row carries:
// user_id, first_name, middle_name, last_name, city, state, zip, email,
// normalized_phone, email_subscription_status, name, value, core_action_id,
// created_at, updated_at, page_id.
const ColumnCount = 16

// BuildSignupQuery assembles the signup report query for a page id and a
// lookback window in days (1 means yesterday's records).
func BuildSignupQuery(pageID, lookbackDays int) string {
	return fmt.Sprintf(signupQuery, pageID, pageID, lookbackDays, lookbackDays)
}
