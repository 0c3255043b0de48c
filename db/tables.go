// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import "github.com/doug-martin/goqu/v9"

const (
	UserTableName    = "app_user"
	SessionTableName = "user_session"
	PollTableName    = "poll"
	OptionTableName  = "poll_option"
	VoteTableName    = "vote"
)

var (
	UserTable             = goqu.T(UserTableName)
	UserTableIDCol        = UserTable.Col("id")
	UserTableEmailCol     = UserTable.Col("email")
	UserTableUsernameCol  = UserTable.Col("username")
	UserTablePasswordCol  = UserTable.Col("password_hash")
	UserTableAvatarCol    = UserTable.Col("avatar")
	UserTableCreatedAtCol = UserTable.Col("created_at")
	UserTableUpdatedAtCol = UserTable.Col("updated_at")
)

var (
	SessionTable             = goqu.T(SessionTableName)
	SessionTableTokenHashCol = SessionTable.Col("token_hash")
	SessionTableUserIDCol    = SessionTable.Col("user_id")
	SessionTableExpiresAtCol = SessionTable.Col("expires_at")
)

var (
	PollTable                 = goqu.T(PollTableName)
	PollTableIDCol            = PollTable.Col("id")
	PollTableTitleCol         = PollTable.Col("title")
	PollTableDescriptionCol   = PollTable.Col("description")
	PollTableCreatedByCol     = PollTable.Col("created_by")
	PollTableCreatedAtCol     = PollTable.Col("created_at")
	PollTableUpdatedAtCol     = PollTable.Col("updated_at")
	PollTableExpiresAtCol     = PollTable.Col("expires_at")
	PollTableIsActiveCol      = PollTable.Col("is_active")
	PollTableAllowMultipleCol = PollTable.Col("allow_multiple_votes")
	PollTableRequireAuthCol   = PollTable.Col("require_auth")
	PollTableSlugCol          = PollTable.Col("slug")
)

var (
	OptionTable            = goqu.T(OptionTableName)
	OptionTableIDCol       = OptionTable.Col("id")
	OptionTablePollIDCol   = OptionTable.Col("poll_id")
	OptionTableTextCol     = OptionTable.Col("text")
	OptionTablePositionCol = OptionTable.Col("position")
)

var (
	VoteTable             = goqu.T(VoteTableName)
	VoteTableIDCol        = VoteTable.Col("id")
	VoteTablePollIDCol    = VoteTable.Col("poll_id")
	VoteTableOptionIDCol  = VoteTable.Col("option_id")
	VoteTableUserIDCol    = VoteTable.Col("user_id")
	VoteTableVoterNameCol = VoteTable.Col("voter_name")
	VoteTableVoterMailCol = VoteTable.Col("voter_email")
	VoteTableIPHashCol    = VoteTable.Col("ip_hash")
	VoteTableVoterKeyCol  = VoteTable.Col("voter_key")
	VoteTableCreatedAtCol = VoteTable.Col("created_at")
)

// PollColumns is the select list scanned by ScanPoll, in order.
var PollColumns = []interface{}{
	PollTableIDCol, PollTableTitleCol, PollTableDescriptionCol, PollTableCreatedByCol,
	PollTableCreatedAtCol, PollTableUpdatedAtCol, PollTableExpiresAtCol,
	PollTableIsActiveCol, PollTableAllowMultipleCol, PollTableRequireAuthCol,
	PollTableSlugCol,
}

// UserColumns is the select list scanned by ScanUser, in order.
var UserColumns = []interface{}{
	UserTableIDCol, UserTableEmailCol, UserTableUsernameCol, UserTableAvatarCol,
	UserTableCreatedAtCol, UserTableUpdatedAtCol,
}
