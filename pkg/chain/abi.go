package chain

// Contract ABI fragments for the deployed Open Grid contracts. The registry
// holds the node/edge/data records; the relay contract fronts the cross-chain
// messaging endpoint. Kept as JSON so the toolkit needs no code generation
// step when the contracts evolve.

const RegistryABI = `[
  {"type":"function","name":"registerNode","stateMutability":"nonpayable",
   "inputs":[{"name":"location","type":"string"},{"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"}],
   "outputs":[{"name":"id","type":"uint256"}]},
  {"type":"function","name":"registerEdge","stateMutability":"nonpayable",
   "inputs":[{"name":"fromId","type":"uint256"},{"name":"toId","type":"uint256"},{"name":"edgeType","type":"string"},{"name":"capacity","type":"uint256"},{"name":"distance","type":"uint256"}],
   "outputs":[{"name":"id","type":"uint256"}]},
  {"type":"function","name":"setNodeActive","stateMutability":"nonpayable",
   "inputs":[{"name":"id","type":"uint256"},{"name":"active","type":"bool"}],
   "outputs":[]},
  {"type":"function","name":"recordDataPoint","stateMutability":"nonpayable",
   "inputs":[{"name":"nodeId","type":"uint256"},{"name":"packed","type":"uint256"}],
   "outputs":[]},
  {"type":"function","name":"recordDataPointBatch","stateMutability":"nonpayable",
   "inputs":[{"name":"packed","type":"uint256[]"}],
   "outputs":[]},
  {"type":"function","name":"nodeCount","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"edgeCount","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"dataPointCount","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getNode","stateMutability":"view",
   "inputs":[{"name":"id","type":"uint256"}],
   "outputs":[{"name":"","type":"tuple","components":[
     {"name":"id","type":"uint256"},{"name":"location","type":"string"},
     {"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"},
     {"name":"active","type":"bool"},{"name":"registeredAt","type":"uint256"},{"name":"lastUpdate","type":"uint256"}]}]},
  {"type":"function","name":"getEdge","stateMutability":"view",
   "inputs":[{"name":"id","type":"uint256"}],
   "outputs":[{"name":"","type":"tuple","components":[
     {"name":"id","type":"uint256"},{"name":"fromId","type":"uint256"},{"name":"toId","type":"uint256"},
     {"name":"edgeType","type":"string"},{"name":"capacity","type":"uint256"},{"name":"distance","type":"uint256"},
     {"name":"active","type":"bool"},{"name":"registeredAt","type":"uint256"}]}]},
  {"type":"function","name":"getDataPoint","stateMutability":"view",
   "inputs":[{"name":"index","type":"uint256"}],
   "outputs":[{"name":"packed","type":"uint256"},{"name":"reporter","type":"address"}]},
  {"type":"function","name":"getAllNodes","stateMutability":"view",
   "inputs":[],
   "outputs":[{"name":"","type":"tuple[]","components":[
     {"name":"id","type":"uint256"},{"name":"location","type":"string"},
     {"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"},
     {"name":"active","type":"bool"},{"name":"registeredAt","type":"uint256"},{"name":"lastUpdate","type":"uint256"}]}]},
  {"type":"function","name":"getAllEdges","stateMutability":"view",
   "inputs":[],
   "outputs":[{"name":"","type":"tuple[]","components":[
     {"name":"id","type":"uint256"},{"name":"fromId","type":"uint256"},{"name":"toId","type":"uint256"},
     {"name":"edgeType","type":"string"},{"name":"capacity","type":"uint256"},{"name":"distance","type":"uint256"},
     {"name":"active","type":"bool"},{"name":"registeredAt","type":"uint256"}]}]},
  {"type":"event","name":"NodeRegistered","anonymous":false,
   "inputs":[{"name":"id","type":"uint256","indexed":true},{"name":"location","type":"string","indexed":false}]},
  {"type":"event","name":"EdgeRegistered","anonymous":false,
   "inputs":[{"name":"id","type":"uint256","indexed":true},{"name":"fromId","type":"uint256","indexed":true},{"name":"toId","type":"uint256","indexed":true}]},
  {"type":"event","name":"DataPointRecorded","anonymous":false,
   "inputs":[{"name":"nodeId","type":"uint256","indexed":true},{"name":"packed","type":"uint256","indexed":false},{"name":"reporter","type":"address","indexed":true}]}
]`

const RelayABI = `[
  {"type":"function","name":"quoteSend","stateMutability":"view",
   "inputs":[{"name":"dstEid","type":"uint32"},{"name":"payload","type":"bytes"}],
   "outputs":[{"name":"nativeFee","type":"uint256"}]},
  {"type":"function","name":"sendEnvelope","stateMutability":"payable",
   "inputs":[{"name":"dstEid","type":"uint32"},{"name":"receiver","type":"bytes32"},{"name":"payload","type":"bytes"}],
   "outputs":[]},
  {"type":"function","name":"receivedCount","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"event","name":"EnvelopeSent","anonymous":false,
   "inputs":[{"name":"guid","type":"bytes32","indexed":true},{"name":"nonce","type":"uint64","indexed":false},
             {"name":"dstEid","type":"uint32","indexed":false},{"name":"payloadSize","type":"uint256","indexed":false}]},
  {"type":"event","name":"EnvelopeReceived","anonymous":false,
   "inputs":[{"name":"guid","type":"bytes32","indexed":true},{"name":"srcEid","type":"uint32","indexed":false},
             {"name":"records","type":"uint256","indexed":false}]}
]`

const OracleConsumerABI = `[
  {"type":"function","name":"requestCompute","stateMutability":"nonpayable",
   "inputs":[{"name":"source","type":"string"},{"name":"args","type":"string[]"}],
   "outputs":[{"name":"requestId","type":"uint256"}]},
  {"type":"function","name":"getResponse","stateMutability":"view",
   "inputs":[{"name":"requestId","type":"uint256"}],
   "outputs":[{"name":"packed","type":"uint256"},{"name":"err","type":"bytes"},{"name":"fulfilled","type":"bool"}]},
  {"type":"event","name":"ComputeRequested","anonymous":false,
   "inputs":[{"name":"requestId","type":"uint256","indexed":true},{"name":"requester","type":"address","indexed":true}]},
  {"type":"event","name":"ComputeFulfilled","anonymous":false,
   "inputs":[{"name":"requestId","type":"uint256","indexed":true},{"name":"packed","type":"uint256","indexed":false},{"name":"err","type":"bytes","indexed":false}]}
]`
