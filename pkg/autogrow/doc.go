// Package autogrow keeps a growing text input's applied height in sync with
// its content, within configured bounds, without disturbing typing flow,
// scroll position, or cursor.
//
// The engine owns exactly one concern: given a content surface and its
// current text, compute and apply the correct visible height and
// scroll/overflow state. It does not validate content, render messages, or
// know anything about transport. Hosts feed it content-change signals via
// Binding.NotifyContentChanged and it applies heights back through the
// Surface capability interface.
//
// Scheduling is abstracted behind the Scheduler interface so the same state
// machine works against real timers (FrameScheduler) or a deterministic
// test driver (ManualScheduler).
package autogrow
