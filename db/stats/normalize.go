package stats

import "regexp"

// Paths are normalized the same way as PluralKit's REST client:
// https://github.com/xSke/PluralKit/blob/d28e99ba43cd8002c893bf29b07007cff72c0360/Myriad/Rest/BaseRestClient.cs#L274-L321

var (
	versionRegexp = regexp.MustCompile(`/api/v\d+`)

	channelsRegexp      = regexp.MustCompile(`/channels/\d+`)
	messagesRegexp      = regexp.MustCompile(`/messages/\d+`)
	membersRegexp       = regexp.MustCompile(`/members/\d+`)
	webhooksExecRegexp  = regexp.MustCompile(`/webhooks/\d+/[^/?]+`)
	webhooksRegexp      = regexp.MustCompile(`/webhooks/\d+`)
	usersRegexp         = regexp.MustCompile(`/users/\d+`)
	rolesRegexp         = regexp.MustCompile(`/roles/\d+`)
	emojisRegexp        = regexp.MustCompile(`/emojis/\d+`)
	guildsRegexp        = regexp.MustCompile(`/guilds/\d+`)
	userReactionsRegexp = regexp.MustCompile(`/reactions/[^{/]+/\d+`)
	reactionsRegexp     = regexp.MustCompile(`/reactions/[^{/]+`)

	snowflakeRegexp = regexp.MustCompile(`\d{15,}`)
)

var webhookToken = regexp.MustCompile(`/webhooks/(\d+)/[^/?]+`)

// NormalizePath replaces all IDs and tokens in path with placeholders.
func NormalizePath(path string) string {
	path = channelsRegexp.ReplaceAllLiteralString(path, "/channels/{channel_id}")
	path = messagesRegexp.ReplaceAllLiteralString(path, "/messages/{message_id}")
	path = membersRegexp.ReplaceAllLiteralString(path, "/members/{user_id}")
	path = webhooksExecRegexp.ReplaceAllLiteralString(path, "/webhooks/{webhook_id}/{webhook_token}")
	path = webhooksRegexp.ReplaceAllLiteralString(path, "/webhooks/{webhook_id}")
	path = usersRegexp.ReplaceAllLiteralString(path, "/users/{user_id}")
	path = rolesRegexp.ReplaceAllLiteralString(path, "/roles/{role_id}")
	path = emojisRegexp.ReplaceAllLiteralString(path, "/emojis/{emoji_id}")
	path = guildsRegexp.ReplaceAllLiteralString(path, "/guilds/{guild_id}")
	path = userReactionsRegexp.ReplaceAllLiteralString(path, "/reactions/{emoji}/{user_id}")
	path = reactionsRegexp.ReplaceAllLiteralString(path, "/reactions/{emoji}")

	path = snowflakeRegexp.ReplaceAllLiteralString(path, "{snowflake}")

	return path
}

func EndpointMetricsName(method, path string) string {
	path = versionRegexp.ReplaceAllLiteralString(path, "")

	return method + " " + NormalizePath(path)
}

// LoggingName hides webhook tokens in path.
func LoggingName(path string) string {
	return webhookToken.ReplaceAllString(path, "/webhooks/$1/:token")
}
