package site

// pageTemplate is the html/template for the reader shell and for exported chapter pages.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{if .Title}}{{.Title}} · {{end}}{{.SiteTitle}}</title>
  <link rel="stylesheet" href="{{.BasePath}}style.css">
  <link rel="stylesheet" href="{{.BasePath}}chroma.css">
</head>
<body data-site-title="{{.SiteTitle}}"{{if .Static}} data-static{{end}}>
  <nav class="sidebar" id="sidebar">
    <div class="sidebar-header">
      <h2 class="project-title">{{.SiteTitle}}</h2>
    </div>
    <div class="sidebar-tree" id="chapter-list">
      {{.SidebarHTML}}
    </div>
  </nav>
  <main class="content">
    <div class="load-banner" id="load-banner" role="alert"{{if not .BannerVisible}} hidden{{end}}>
      <span>This chapter could not be loaded. Check that the tutorial files are being served and try again.</span>
      <button type="button" class="banner-close" id="banner-close" aria-label="Dismiss">&times;</button>
    </div>
    <article class="page-content" id="content">
      {{if .ContentHTML}}{{.ContentHTML}}{{else}}<p class="loading">Loading…</p>{{end}}
    </article>
  </main>
  <script src="{{.BasePath}}script.js"></script>
</body>
</html>`

// exportIndexTemplate maps "#<id>" to the exported chapter page, defaulting to the first chapter.
const exportIndexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.SiteTitle}}</title>
  <script>
    (function() {
      var ids = {{.IDs}};
      var id = parseInt(location.hash.slice(1), 10);
      if (!/^#[0-9]+$/.test(location.hash) || ids.indexOf(id) < 0) {
        id = ids[0];
      }
      location.replace("chapter-" + id + ".html");
    })();
  </script>
</head>
<body>
  <p><a href="{{.FirstPage}}">{{.SiteTitle}}</a></p>
</body>
</html>`

// cssContent is the stylesheet for the reader.
const cssContent = `/* ============ CSS Variables ============ */
:root {
  --bg: #ffffff;
  --bg-sidebar: #f1f3f5;
  --text: #212529;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #228be6;
  --accent-light: #e7f5ff;
  --code-bg: #f6f8fa;
  --warn-bg: #fff3bf;
  --warn-border: #fcc419;
  --sidebar-width: 300px;
  --content-max-width: 860px;
}

@media (prefers-color-scheme: dark) {
  :root {
    --bg: #1a1b26;
    --bg-sidebar: #16171f;
    --text: #c0caf5;
    --text-muted: #565f89;
    --border: #292e42;
    --accent: #7aa2f7;
    --accent-light: #1f2335;
    --code-bg: #1f2030;
    --warn-bg: #3b3320;
    --warn-border: #e0af68;
  }
}

/* ============ Reset & Base ============ */
*, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }

body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
  line-height: 1.7;
  display: flex;
  min-height: 100vh;
}

/* ============ Sidebar ============ */
.sidebar {
  width: var(--sidebar-width);
  flex-shrink: 0;
  background: var(--bg-sidebar);
  border-right: 1px solid var(--border);
  position: sticky;
  top: 0;
  height: 100vh;
  overflow-y: auto;
  padding: 1.25rem 0.75rem;
}
.project-title { font-size: 1.1rem; margin: 0 0.5rem 1rem; }
.chapter-list { list-style: none; }
.chapter-list li a {
  display: flex;
  gap: 0.5rem;
  padding: 0.35rem 0.5rem;
  border-radius: 6px;
  color: var(--text);
  text-decoration: none;
}
.chapter-list li a:hover { background: var(--accent-light); }
.chapter-list li.active a { background: var(--accent); color: #fff; }
.chapter-list .glyph { width: 1.5rem; text-align: center; }

/* ============ Content ============ */
.content { flex: 1; min-width: 0; padding: 2rem 3rem; }
.page-content { max-width: var(--content-max-width); }
.page-content h1 { font-size: 2rem; margin-bottom: 1rem; }
.page-content h2 { font-size: 1.5rem; margin: 2rem 0 0.75rem; }
.page-content h3 { font-size: 1.2rem; margin: 1.5rem 0 0.5rem; }
.page-content p, .page-content ul, .page-content ol, .page-content table { margin-bottom: 1rem; }
.page-content ul, .page-content ol { padding-left: 1.5rem; }
.page-content a { color: var(--accent); }
.page-content code { font-family: "JetBrains Mono", "Fira Code", Menlo, Consolas, monospace; font-size: 0.9em; }
.page-content pre {
  background: var(--code-bg);
  border: 1px solid var(--border);
  border-radius: 6px;
  padding: 1rem;
  overflow-x: auto;
  margin-bottom: 1rem;
}
.page-content table { border-collapse: collapse; }
.page-content th, .page-content td { border: 1px solid var(--border); padding: 0.4rem 0.75rem; }
.loading { color: var(--text-muted); }

/* ============ Failure banner ============ */
.load-banner {
  display: flex;
  align-items: center;
  justify-content: space-between;
  gap: 1rem;
  max-width: var(--content-max-width);
  margin-bottom: 1.5rem;
  padding: 0.75rem 1rem;
  background: var(--warn-bg);
  border: 1px solid var(--warn-border);
  border-radius: 6px;
}
.load-banner[hidden] { display: none; }
.banner-close { background: none; border: none; font-size: 1.4rem; cursor: pointer; color: inherit; }

@media (max-width: 768px) {
  body { flex-direction: column; }
  .sidebar { width: 100%; height: auto; position: static; }
  .content { padding: 1.5rem; }
}
`

// jsContent drives the reader page. Navigation state lives on the server;
// the script forwards page events over /ws/reader and paints the updates it
// receives.
const jsContent = `(function() {
  "use strict";

  var list = document.getElementById("chapter-list");
  var content = document.getElementById("content");
  var banner = document.getElementById("load-banner");
  var closeButton = document.getElementById("banner-close");
  var siteTitle = document.body.getAttribute("data-site-title") || "";

  // Exported pages are plain links; only the live reader has a socket.
  if (!window.WebSocket || document.body.hasAttribute("data-static")) {
    if (closeButton) {
      closeButton.addEventListener("click", function() { banner.hidden = true; });
    }
    return;
  }

  var socket = null;
  var current = null;

  function send(msg) {
    if (socket && socket.readyState === WebSocket.OPEN) {
      socket.send(JSON.stringify(msg));
    }
  }

  function markActive(filename) {
    var items = list.querySelectorAll("li[data-filename]");
    for (var i = 0; i < items.length; i++) {
      items[i].classList.toggle("active", items[i].getAttribute("data-filename") === filename);
    }
  }

  function setFragment(fragment) {
    current = fragment;
    if (location.hash.slice(1) !== fragment) {
      location.hash = fragment;
    }
  }

  function handle(msg) {
    switch (msg.type) {
      case "content":
        content.innerHTML = msg.html;
        document.title = msg.title ? msg.title + " · " + siteTitle : siteTitle;
        window.scrollTo(0, 0);
        break;
      case "active":
        markActive(msg.filename);
        break;
      case "fragment":
        setFragment(msg.fragment);
        break;
      case "banner":
        banner.hidden = !msg.visible;
        break;
      case "error":
        console.error("pytutor:", msg.message);
        break;
    }
  }

  function connect() {
    var proto = location.protocol === "https:" ? "wss:" : "ws:";
    socket = new WebSocket(proto + "//" + location.host + "/ws/reader");
    socket.onopen = function() {
      send({ type: "start", fragment: location.hash.slice(1) });
    };
    socket.onmessage = function(ev) {
      try {
        handle(JSON.parse(ev.data));
      } catch (e) {
        console.error("pytutor: bad message", e);
      }
    };
    socket.onclose = function() {
      setTimeout(connect, 2000);
    };
  }

  list.addEventListener("click", function(ev) {
    var link = ev.target.closest("a[data-chapter-id]");
    if (!link) { return; }
    ev.preventDefault();
    send({ type: "select", id: parseInt(link.getAttribute("data-chapter-id"), 10) });
  });

  window.addEventListener("hashchange", function() {
    var fragment = location.hash.slice(1);
    if (fragment === current) { return; }
    send({ type: "navigate", fragment: fragment });
  });

  closeButton.addEventListener("click", function() {
    banner.hidden = true;
    send({ type: "dismiss" });
  });

  connect();
})();
`
