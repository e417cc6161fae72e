package codecctx

import "sync"

// globalLock serializes every avcodec_open2 call and every codec-context
// dispose across all components, as the codec library requires. Nothing
// else is allowed to acquire it.
var globalLock sync.Mutex
