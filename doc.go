/*
	Project: CodeGrow - a coding course platform for beginners.
	This module holds the client side: the admin CLI (apps/admin) and the web back-end-for-front-end (apps/web),
	both talking to the CodeGrow REST API.
*/
package frontend

/*
TODO: SSE heartbeat (": ping" every ~25s) so proxies do not drop idle /v1/activity/events streams.
TODO: web: re-issue the JWT when the upstream token is rotated instead of forcing a new login.
*/
