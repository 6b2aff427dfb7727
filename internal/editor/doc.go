// Package editor exposes the editable-image handle of the editing core.
//
// An Editor decodes compressed bytes into an *Image. The Image owns exactly
// one pixel.Buffer at a time; Rotate, Crop and Resize compute a new buffer
// and swap it in only once it is complete, so a failed edit leaves the image
// unchanged. Buffers returned to callers are copies and stay valid after
// later edits.
//
// # Concurrency
//
// CreateImageAsync runs the decode on a goroutine and returns a Future. The
// number of decodes in flight is bounded by Config.Workers. An *Image itself
// is not safe for concurrent use; confine it to one goroutine or guard it.
//
// # Example
//
//	ed := editor.New(editor.Config{})
//	img, err := ed.CreateImage(data)
//	if err != nil {
//	    return err
//	}
//	defer img.Close()
//	if err := img.Rotate(90); err != nil {
//	    return err
//	}
//	out, err := img.ToPNG()
package editor
