// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

JSON field names are camelCase to match the web client.

# Request Types

  - SignUpRequest: email, username, password
  - SignInRequest: email, password
  - CreatePollRequest: title, description, options, expiresAt, allowMultipleVotes, requireAuth
  - VoteRequest: optionIds, voterInfo

# Response Types

  - AuthResponse: user, passwordStrength
  - VoteResponse: voteIds, message
  - PaginatedPolls: data, pagination
  - PollResults: poll, stats, leadingOption, isExpired
  - DashboardResponse: user, polls, stats
  - ErrorResponse: error, message

# Domain Types

  - User: account (password hash never serialized)
  - Poll: question with ordered options and derived status
  - PollOption: selectable option with vote count
  - Vote: one recorded selection
  - PollStats / OptionStat / HistoryPoint: aggregated results

# Constants

Status values:

	StatusActive   = "active"
	StatusExpired  = "expired"
	StatusDraft    = "draft"
	StatusArchived = "archived"

Sort fields: createdAt, updatedAt, title, totalVotes (asc or desc).
*/
package models
