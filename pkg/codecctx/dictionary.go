package codecctx

/*
#cgo pkg-config: libavutil

#include <stdlib.h>
#include <libavutil/dict.h>

static void mc_dict_set(AVDictionary **d, const char *key, const char *value) {
	av_dict_set(d, key, value, 0);
}

static int mc_dict_count(AVDictionary *d) {
	return av_dict_count(d);
}

static void mc_dict_free(AVDictionary *d) {
	av_dict_free(&d);
}

// mc_dict_next_key returns the remaining key after prev (the first key when
// prev is NULL) via the iteration API, used to list unconsumed option keys
// after avcodec_open2.
static const char *mc_dict_next_key(AVDictionary *d, const char *prev) {
	AVDictionaryEntry *e = av_dict_get(d, "", prev, AV_DICT_IGNORE_SUFFIX);
	return e ? e->key : NULL;
}
*/
import "C"

import "unsafe"

// Dictionary is the per-stream codec option set (an AVDictionary*) passed to
// avcodec_open2. After Open, any keys the codec did not consume remain and
// can be listed via RemainingKeys for a one-time warning.
type Dictionary struct {
	d *C.AVDictionary
}

// NewDictionary builds a Dictionary from a plain string map.
func NewDictionary(opts map[string]string) *Dictionary {
	dict := &Dictionary{}
	for k, v := range opts {
		ck := C.CString(k)
		cv := C.CString(v)
		C.mc_dict_set(&dict.d, ck, cv)
		C.free(unsafe.Pointer(ck))
		C.free(unsafe.Pointer(cv))
	}
	if len(opts) > 0 {
		TrackAlloc("option_dict")
	}
	return dict
}

// Set inserts or overwrites a single option key.
func (dict *Dictionary) Set(key, value string) {
	if dict == nil {
		return
	}
	ck := C.CString(key)
	cv := C.CString(value)
	defer C.free(unsafe.Pointer(ck))
	defer C.free(unsafe.Pointer(cv))
	if dict.d == nil {
		TrackAlloc("option_dict")
	}
	C.mc_dict_set(&dict.d, ck, cv)
}

// RemainingKeys lists every option key avcodec_open2 left unconsumed.
func (dict *Dictionary) RemainingKeys() []string {
	if dict == nil || dict.d == nil {
		return nil
	}
	var keys []string
	var prev *C.char
	for {
		next := C.mc_dict_next_key(dict.d, prev)
		if next == nil {
			break
		}
		keys = append(keys, C.GoString(next))
		prev = next
	}
	return keys
}

// Free releases the dictionary.
func (dict *Dictionary) Free() {
	if dict == nil || dict.d == nil {
		return
	}
	C.mc_dict_free(dict.d)
	dict.d = nil
	TrackFree("option_dict")
}
