package server

import "net/http"

// indexHTML is the single-page client: it opens an SSE stream and
// swaps the rendered frame into an img tag as updates arrive
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<title>Progressive Pathtracer</title>
<style>
body { font-family: sans-serif; background: #222; color: #ddd; text-align: center; }
img { image-rendering: pixelated; width: 800px; margin-top: 1em; }
#status { margin-top: 0.5em; color: #999; }
</style>
</head>
<body>
<h1>Progressive Pathtracer</h1>
<button onclick="render('default')">Render default scene</button>
<button onclick="render('empty')">Render empty scene</button>
<div><img id="frame" alt=""></div>
<div id="status"></div>
<script>
let source = null;
function render(scene) {
  if (source) source.close();
  source = new EventSource('/api/render?scene=' + scene);
  source.addEventListener('progress', e => {
    const u = JSON.parse(e.data);
    document.getElementById('frame').src = 'data:image/png;base64,' + u.imageData;
    document.getElementById('status').textContent =
      'Frame ' + u.frameNumber + '/' + u.totalFrames +
      ' (' + u.averageSamples.toFixed(1) + ' samples/pixel, ' + u.elapsedMs + ' ms)';
    if (u.isComplete) source.close();
  });
  source.addEventListener('error', e => {
    if (e.data) document.getElementById('status').textContent = JSON.parse(e.data).error;
    source.close();
  });
}
</script>
</body>
</html>`

// handleIndex serves the built-in client page
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}
