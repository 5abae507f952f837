package metrics

// Metric names
const (
	MetricNameHTTPRequestsTotal    = "rochambeau_http_requests_total"
	MetricNameHTTPRequestDuration  = "rochambeau_http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "rochambeau_http_requests_in_flight"

	MetricNameFramesGrabbed   = "rochambeau_frames_grabbed_total"
	MetricNameFramesAccepted  = "rochambeau_frames_accepted_total"
	MetricNameFramesStale     = "rochambeau_frames_stale_total"
	MetricNameSourceErrors    = "rochambeau_source_errors_total"
	MetricNameClassifications = "rochambeau_classifications_total"
	MetricNameGestureChanges  = "rochambeau_gesture_changes_total"
	MetricNameSourceRunning   = "rochambeau_source_running"

	MetricNameRoundsStarted  = "rochambeau_rounds_started_total"
	MetricNameRoundsResolved = "rochambeau_rounds_resolved_total"
	MetricNameNoGesture      = "rochambeau_round_no_gesture_total"
	MetricNameCurrentStreak  = "rochambeau_current_streak"
	MetricNameHighStreak     = "rochambeau_high_streak"

	MetricNameViewsPublished = "rochambeau_views_published_total"
	MetricNameWSClients      = "rochambeau_ws_clients"
	MetricNameWSDroppedViews = "rochambeau_ws_dropped_views_total"

	MetricNameHookRuns          = "rochambeau_hook_runs_total"
	MetricNameHookDroppedEvents = "rochambeau_hook_dropped_events_total"
)

// Help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"

	HelpTextFramesGrabbed   = "Frames grabbed from the frame source"
	HelpTextFramesAccepted  = "Frames accepted by the throttle and classified"
	HelpTextFramesStale     = "Classification results dropped because a round reset made them stale"
	HelpTextSourceErrors    = "Errors reported by the frame source"
	HelpTextClassifications = "Per-frame classifier results by gesture"
	HelpTextGestureChanges  = "Stabilized gesture changes by new gesture"
	HelpTextSourceRunning   = "1 while the frame source is delivering frames"

	HelpTextRoundsStarted  = "Rounds started by mode"
	HelpTextRoundsResolved = "Rounds resolved by outcome"
	HelpTextNoGesture      = "Round starts rejected because no gesture was available"
	HelpTextCurrentStreak  = "Current win streak"
	HelpTextHighStreak     = "Best win streak"

	HelpTextViewsPublished = "Views published to display sinks"
	HelpTextWSClients      = "Connected websocket clients"
	HelpTextWSDroppedViews = "Views dropped for slow websocket clients"

	HelpTextHookRuns          = "Hook executions by hook and result"
	HelpTextHookDroppedEvents = "Game events not delivered to hooks because the queue was full"
)

// Label names
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelGesture = "gesture"
	LabelOutcome = "outcome"
	LabelMode    = "mode"
	LabelStage   = "stage"
	LabelHook    = "hook"
	LabelResult  = "result"
)

// HTTPLatencyBuckets are the request duration buckets in seconds.
var HTTPLatencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}
