package handlers

import (
	"html/template"
	"net/http"

	"fermentation_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

type statusCard struct {
	ID, Label, Text string
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Fermentation Dashboard</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
<script src="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"></script>
</head>
<body class="bg-light">
<div class="container py-4">
  <div class="d-flex justify-content-between align-items-center mb-4">
    <h1 class="h3">Fermentation Dashboard</h1>
    <button class="btn btn-primary" data-bs-toggle="modal" data-bs-target="#newSessionModal">New session</button>
  </div>
  <div class="row g-3 mb-4">
    {{- range .Cards }}
    <div class="col">
      <div class="card"><div class="card-body">
        <div class="text-muted small">{{ .Label }}</div>
        <div class="h4" id="{{ .ID }}">{{ .Text }}</div>
      </div></div>
    </div>
    {{- end }}
  </div>
  <div class="row g-3 mb-4">
    {{- range .ChartIDs }}
    <div class="col-md-6"><div class="card"><div class="card-body"><canvas id="{{ . }}"></canvas></div></div></div>
    {{- end }}
  </div>
  <h2 class="h5">Active sessions</h2>
  <div id="sessions-list">{{ .SessionsHTML }}</div>
</div>

<div class="modal fade" id="newSessionModal" tabindex="-1">
  <div class="modal-dialog"><div class="modal-content">
    <form id="sessionForm">
      <div class="modal-header"><h5 class="modal-title">New fermentation session</h5></div>
      <div class="modal-body">
        <input class="form-control mb-2" id="sessionName" placeholder="Name">
        <textarea class="form-control" id="sessionNotes" placeholder="Notes"></textarea>
      </div>
      <div class="modal-footer"><button type="submit" class="btn btn-primary">Create</button></div>
    </form>
  </div></div>
</div>

<script>
const charts = {};

function drawChart(view) {
  const existing = charts[view.id];
  if (view.type === 'doughnut') {
    if (existing) {
      existing.data.datasets[0].data = view.values;
      existing.update();
      return;
    }
    charts[view.id] = new Chart(document.getElementById(view.id), {
      type: 'doughnut',
      data: {labels: view.labels, datasets: [{data: view.values, backgroundColor: view.colors.map(c => '#' + c)}]},
      options: {plugins: {title: {display: true, text: view.title}}}
    });
    return;
  }
  if (existing) {
    existing.data.labels = view.labels;
    view.datasets.forEach((ds, i) => { existing.data.datasets[i].data = ds.data; });
    existing.update();
    return;
  }
  charts[view.id] = new Chart(document.getElementById(view.id), {
    type: 'line',
    data: {
      labels: view.labels,
      datasets: view.datasets.map(ds => ({label: ds.label, data: ds.data, borderColor: '#' + ds.color, yAxisID: ds.axis, tension: 0.1}))
    },
    options: {
      plugins: {title: {display: true, text: view.title}},
      scales: {
        y: {type: 'linear', position: 'left', title: {display: true, text: view.primary_axis_title}},
        y1: {type: 'linear', position: 'right', title: {display: true, text: view.secondary_axis_title}, grid: {drawOnChartArea: false}}
      }
    }
  });
}

function render(d) {
  Object.entries(d.status).forEach(([id, text]) => {
    const el = document.getElementById(id);
    if (el) el.textContent = text;
  });
  d.chart_ids.forEach(id => drawChart(d.charts[id]));
  document.getElementById('sessions-list').innerHTML = d.sessions_html;
}

function connect() {
  const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
  ws.onmessage = ev => { const env = JSON.parse(ev.data); if (env.data) render(env.data); };
  ws.onclose = () => setTimeout(connect, 5000);
}

document.getElementById('sessionForm').addEventListener('submit', async ev => {
  ev.preventDefault();
  const name = document.getElementById('sessionName');
  const notes = document.getElementById('sessionNotes');
  let out;
  try {
    const resp = await fetch('/api/v1/sessions', {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify({name: name.value, notes: notes.value})
    });
    out = await resp.json();
  } catch (e) {
    alert('Error creating session');
    return;
  }
  if (out.alert) alert(out.alert);
  if (out.reset_form) { name.value = ''; notes.value = ''; }
  if (out.close_modal) bootstrap.Modal.getInstance(document.getElementById('newSessionModal')).hide();
  if (out.sessions_html) document.getElementById('sessions-list').innerHTML = out.sessions_html;
});

fetch('/api/v1/dashboard').then(r => r.json()).then(render);
connect();
</script>
</body>
</html>
`))

// @Summary      Dashboard page
// @Tags         dashboard
// @Produce      html
// @Success      200  {string}  string
// @Router       / [get]
func (h *Handler) index(c *gin.Context) {
	v := h.services.Dashboard.Snapshot()

	cards := make([]statusCard, 0, len(v.StatusIDs))
	for _, id := range v.StatusIDs {
		cards = append(cards, statusCard{ID: id, Label: service.StatusLabel(id), Text: v.Status[id]})
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	err := indexTmpl.Execute(c.Writer, struct {
		Cards        []statusCard
		ChartIDs     []string
		SessionsHTML template.HTML
	}{cards, v.ChartIDs, v.SessionsHTML})
	if err != nil && h.log != nil {
		h.log.Errorw("index_render_failed", "err", err)
	}
}
