package tmplt

// HtmlPage is rendered with a PageData value.
var HtmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Media Compress</title>
	<style>
		body {
			font-family: monospace;
			background: white;
			color: black;
			margin: 40px;
			line-height: 1.6;
		}
		button {
			background: white;
			color: black;
			border: 2px solid black;
			padding: 10px 20px;
			margin: 10px;
			cursor: pointer;
			font-family: monospace;
		}
		button:hover {
			background: black;
			color: white;
		}
		button:disabled {
			opacity: 0.5;
			cursor: not-allowed;
		}
		input[type=number] {
			width: 6em;
			font-family: monospace;
		}
		#dropzone {
			border: 2px dashed black;
			padding: 40px;
			text-align: center;
			cursor: pointer;
		}
		#dropzone.over {
			background: #eee;
		}
		#status {
			margin: 20px 0;
			padding: 10px;
			border: 1px solid black;
		}
		.hidden {
			display: none;
		}
	</style>
</head>
<body>
	<h1>Media Compress</h1>

	<div id="dropzone">Drop an image or audio file here, or click to choose one</div>
	<input type="file" id="file" class="hidden" accept="image/*,audio/*">

	<div id="imageControls" class="hidden">
		<label>Width <input type="number" id="width" min="1" value="{{.MaxWidth}}"></label>
		<label>Height <input type="number" id="height" min="1" value="{{.MaxHeight}}"></label>
		<input type="hidden" id="maxBytes" value="{{.MaxOutputBytes}}">
		<button id="processImage">Resize</button>
		<a id="imageDownload" class="hidden" href="/api/image/download">Save {{.ImageFileName}}</a>
	</div>

	<div id="audioControls" class="hidden">
		<button id="processAudio">Compress</button>
		<a id="audioDownload" class="hidden" href="/api/audio/download">Save {{.AudioFileName}}</a>
	</div>

	<div id="status">Status: No file selected</div>

	<script>
		const status = document.getElementById('status');
		const dropzone = document.getElementById('dropzone');
		const fileInput = document.getElementById('file');
		const imageControls = document.getElementById('imageControls');
		const audioControls = document.getElementById('audioControls');
		const imageDownload = document.getElementById('imageDownload');
		const audioDownload = document.getElementById('audioDownload');

		function show(kind) {
			imageControls.classList.toggle('hidden', kind !== 'image');
			audioControls.classList.toggle('hidden', kind !== 'audio');
			imageDownload.classList.add('hidden');
			audioDownload.classList.add('hidden');
		}

		async function upload(file) {
			if (!file) {
				status.textContent = 'Status: No file dropped';
				return;
			}
			const body = new FormData();
			body.append('file', file);
			status.textContent = 'Status: Uploading ' + file.name;
			const res = await fetch('/api/assets', { method: 'POST', body });
			const data = await res.json();
			if (!res.ok) {
				show('');
				status.textContent = 'Status: ' + data.message;
				return;
			}
			show(data.kind);
			status.textContent = 'Status: Selected ' + data.name + ' (' + data.kind + ')';
		}

		async function process(kind, body) {
			status.textContent = 'Status: Processing ' + kind;
			const res = await fetch('/api/' + kind + '/process', {
				method: 'POST',
				headers: { 'Content-Type': 'application/json' },
				body: body ? JSON.stringify(body) : undefined,
			});
			const data = await res.json();
			if (!res.ok) {
				status.textContent = 'Status: ' + data.message;
				return;
			}
			document.getElementById(kind + 'Download').classList.remove('hidden');
			status.textContent = 'Status: Done, ' + data.bytes + ' bytes';
		}

		dropzone.addEventListener('click', () => fileInput.click());
		dropzone.addEventListener('dragover', (e) => {
			e.preventDefault();
			dropzone.classList.add('over');
		});
		dropzone.addEventListener('dragleave', () => dropzone.classList.remove('over'));
		dropzone.addEventListener('drop', (e) => {
			e.preventDefault();
			dropzone.classList.remove('over');
			upload(e.dataTransfer.files[0]);
		});
		fileInput.addEventListener('change', () => upload(fileInput.files[0]));

		document.getElementById('processImage').addEventListener('click', () => process('image', {
			max_width: parseInt(document.getElementById('width').value, 10),
			max_height: parseInt(document.getElementById('height').value, 10),
			max_output_bytes: parseInt(document.getElementById('maxBytes').value, 10),
		}));
		document.getElementById('processAudio').addEventListener('click', () => process('audio'));
	</script>
</body>
</html>
`

// PageData fills the form defaults.
type PageData struct {
	MaxWidth       int
	MaxHeight      int
	MaxOutputBytes int64
	ImageFileName  string
	AudioFileName  string
}
