package webui

const defaultIndexHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>syllabus tutor</title>
  <style>
    body { font-family: "Segoe UI", sans-serif; margin: 0; background: linear-gradient(145deg,#f7fafc,#e9eef7); color: #1f2937; }
    .wrap { max-width: 900px; margin: 0 auto; padding: 20px; }
    .panel { background: #fff; border-radius: 12px; box-shadow: 0 8px 30px rgba(15,23,42,.08); padding: 16px; }
    #log { min-height: 320px; max-height: 60vh; overflow: auto; white-space: pre-wrap; border: 1px solid #d1d5db; border-radius: 8px; padding: 12px; background: #f9fafb; }
    .row { display: flex; gap: 8px; margin-top: 10px; }
    input, textarea { flex: 1; padding: 10px; border: 1px solid #cbd5e1; border-radius: 8px; font: inherit; }
    textarea { min-height: 60px; }
    button { padding: 10px 16px; border: 0; border-radius: 8px; background: #0f766e; color: #fff; cursor: pointer; }
    button:hover { background: #0d9488; }
    .hint { color: #64748b; font-size: 13px; }
  </style>
</head>
<body>
  <div class="wrap">
    <div class="panel">
      <h2>syllabus tutor</h2>
      <div class="row"><input id="subject" placeholder="Subject area, e.g. Operating Systems" /></div>
      <div class="row"><textarea id="syllabus" placeholder="Syllabus context"></textarea></div>
      <div id="log"></div>
      <div id="suggestions" class="hint"></div>
      <div class="row">
        <input id="msg" placeholder="Ask about the syllabus..." />
        <button id="send">Send</button>
      </div>
    </div>
  </div>
  <script>
    const log = document.getElementById('log');
    const msg = document.getElementById('msg');
    const send = document.getElementById('send');
    const hints = document.getElementById('suggestions');
    let sessionId = '';
    const append = (role, text) => { log.textContent += role + ': ' + text + '\n\n'; log.scrollTop = log.scrollHeight; };
    async function sendMessage() {
      const text = msg.value.trim();
      if (!text) return;
      append('You', text);
      msg.value = '';
      const body = {
        session_id: sessionId,
        message: text,
        subject_area: document.getElementById('subject').value.trim(),
        syllabus_context: document.getElementById('syllabus').value.trim(),
      };
      const resp = await fetch('/api/chat', { method:'POST', headers:{'Content-Type':'application/json'}, body: JSON.stringify(body)});
      const data = await resp.json();
      if (data.session_id) sessionId = data.session_id;
      append('Tutor', data.response || data.error || '(empty)');
      hints.textContent = (data.suggestions || []).join('  |  ');
    }
    send.addEventListener('click', sendMessage);
    msg.addEventListener('keydown', (e) => { if (e.key === 'Enter') sendMessage(); });
  </script>
</body>
</html>`
