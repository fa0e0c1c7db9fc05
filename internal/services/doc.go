// Package services defines the [Client] interface for the remote music
// service and implements it for YouTube Music.
//
// # Client Interface
//
// The pipeline only needs three remote operations: category-scoped search,
// playlist creation, and playlist item insertion. [Client] captures exactly
// those plus a startup [Client.Ping] health probe.
//
// # YouTube Music Implementation
//
// [YouTubeMusicService] communicates with the FastAPI proxy wrapping
// ytmusicapi. The proxy handles YouTube Music authentication complexities;
// the credential file path is sent via the X-Auth-File header on each
// request. Requests are paced with a [rate.Limiter] because all calls run
// against a single account.
//
// # Session Credentials
//
// Two credential file formats are supported, matching ytmusicapi:
//   - browser.json, written by [WriteBrowserAuth] from request headers
//     captured in DevTools ("Copy as cURL" on a logged-in session)
//   - oauth.json, written by [WriteOAuthToken] after [DeviceFlow] completes
//     the OAuth device authorization grant
//
// [ResolveAuthFile] picks whichever file exists, preferring an explicit
// override, then browser, then oauth.
//
// # Error Handling
//
// Non-2xx responses surface as [*APIError] carrying the HTTP status code.
// The insertion engine inspects [APIError.IsConflict] to retry 409s with
// backoff; every other status is terminal for the item.
package services
