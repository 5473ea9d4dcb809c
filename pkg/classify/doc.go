// Package classify decides what kind of canvas node pasted or dropped
// content should become.
//
// Classification is pure: it inspects the content, never fetches anything,
// and always produces a node. Absolute URLs become video, image or link
// nodes depending on host and path extension; text that looks like markdown
// becomes a markdown node; everything else becomes a plain text node.
//
//	res := classify.Classify("https://youtu.be/abc123", false, canvas.Position{X: 100, Y: 80})
//	fmt.Println(res.Kind, res.Node.Data["title"]) // video YouTube Video
//
// Node ids follow the "{kind}-{unix millis}-{suffix}" scheme of
// [canvas.NewID]; set [Classifier.IDs] for deterministic ids in tests.
package classify
